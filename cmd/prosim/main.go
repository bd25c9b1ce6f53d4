package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/MaafiaTroodon/MultiProSim/internal/config"
	"github.com/MaafiaTroodon/MultiProSim/internal/engine"
	"github.com/MaafiaTroodon/MultiProSim/internal/inspect"
	"github.com/MaafiaTroodon/MultiProSim/internal/obslog"
	"github.com/MaafiaTroodon/MultiProSim/internal/parser"
	"github.com/MaafiaTroodon/MultiProSim/internal/summary"
	"github.com/MaafiaTroodon/MultiProSim/internal/topology"
	"github.com/MaafiaTroodon/MultiProSim/internal/trace"
)

func main() {
	var (
		inputPath   = flag.String("input", "", "Path to the program input file (default: stdin)")
		configPath  = flag.String("config", "", "Path to a YAML config file")
		runLogPath  = flag.String("run-log", "", "Path to write the JSON-lines diagnostics log")
		summaryJSON = flag.String("summary-json", "", "Also write the summary as a JSON array to this path")
		topologyOut = flag.String("topology-out", "", "Render the node/process/match topology graph to this path (.dot/.svg/.png)")
		serveAddr   = flag.String("serve", "", "Start the inspection HTTP server on this address after the run")
		otelFlag    = flag.Bool("otel", false, "Attach the OpenTelemetry trace sink alongside the text sink")
	)
	flag.Parse()

	if err := run(*inputPath, *configPath, *runLogPath, *summaryJSON, *topologyOut, *serveAddr, *otelFlag); err != nil {
		fmt.Fprintf(os.Stderr, "prosim: %v\n", err)
		os.Exit(1)
	}
}

func run(inputPath, configPath, runLogPath, summaryJSON, topologyOut, serveAddr string, otelFlag bool) error {
	file, err := config.LoadFile(configPath)
	if err != nil {
		return err
	}
	resolved := config.Resolve(file, config.Flags{
		InputPath:       inputPath,
		RunLogPath:      runLogPath,
		SummaryJSONPath: summaryJSON,
		TopologyOutPath: topologyOut,
		ServeAddr:       serveAddr,
		OTel:            otelFlag,
	})
	if err := resolved.Validate(); err != nil {
		return err
	}

	in := os.Stdin
	if resolved.InputPath != "" {
		f, err := os.Open(resolved.InputPath)
		if err != nil {
			return fmt.Errorf("opening input: %w", err)
		}
		defer f.Close()
		in = f
	}

	prog, err := parser.Parse(in)
	if err != nil {
		return err
	}

	logger, err := obslog.New(resolved.RunLogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "prosim: run log disabled: %v\n", err)
		logger, _ = obslog.New("")
	}
	defer logger.Close()

	textTrace := trace.NewTextSink(os.Stdout)
	capture := engine.NewCaptureSink()
	traceSinks := []engine.TraceSink{textTrace, capture}

	var otelSink *trace.OTelSink
	if resolved.OTel {
		if err := trace.InitStdoutProvider(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "prosim: otel disabled: %v\n", err)
		} else {
			otelSink = trace.NewOTelSink()
			traceSinks = append(traceSinks, otelSink)
		}
	}

	textSummary := summary.NewTextSink(os.Stdout)
	summarySinks := []engine.SummarySink{textSummary, capture}

	sinks := engine.Sinks{
		Trace:    trace.NewMultiSink(traceSinks...),
		Summary:  summary.NewMultiSink(summarySinks...),
		Observer: logger,
	}

	driver, err := engine.NewDriver(prog, sinks)
	if err != nil {
		return err
	}

	logger.RunStarted(resolved.InputPath)
	result := driver.Run()
	logger.RunFinished(len(result.Rows), len(result.DeadlockedPIDs))

	textTrace.Flush()
	textSummary.Flush()
	if otelSink != nil {
		otelSink.Close()
	}
	if resolved.SummaryJSONPath != "" {
		if err := summary.WriteJSONFile(resolved.SummaryJSONPath, capture.Rows); err != nil {
			fmt.Fprintf(os.Stderr, "prosim: writing summary json: %v\n", err)
		}
	}

	if resolved.TopologyOutPath != "" {
		nodes, matches := driver.Snapshot()
		if err := topology.Render(nodes, matches, resolved.TopologyOutPath); err != nil {
			fmt.Fprintf(os.Stderr, "prosim: rendering topology: %v\n", err)
		}
	}

	if resolved.ServeAddr != "" {
		srv := inspect.New(logger.RunID().String(), result, capture.Events)
		fmt.Fprintf(os.Stderr, "prosim: serving inspection endpoints on %s\n", resolved.ServeAddr)
		if err := srv.ListenAndServe(resolved.ServeAddr); err != nil {
			fmt.Fprintf(os.Stderr, "prosim: inspection server: %v\n", err)
		}
	}

	return nil
}
