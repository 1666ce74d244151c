package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gopacket/gopacket/layers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
	_ "modernc.org/sqlite"

	"static-flow-classifier/internal/config"
	"static-flow-classifier/internal/engine"
	"static-flow-classifier/internal/model"
	"static-flow-classifier/internal/parser"
	"static-flow-classifier/internal/validate"
	"static-flow-classifier/pkg/wellknown"
)

var (
	configFile string
	flowsFile  string
	rulesFile  string
	outFile    string
	workers    int
	logLevel   string
	logFile    string
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "classifier",
		Short: "Static traffic classification rule checker",
		Long: `classifier evaluates static traffic classification rules (MAC, EtherType,
IP space, TCP/UDP port, location and time of day) against recorded flows.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (YAML, TOML or JSON)")
	rootCmd.PersistentFlags().StringVar(&rulesFile, "rules", "", "Static classifier rules YAML file (required)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "INFO", "Log level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Log file path (default: stderr)")
	rootCmd.MarkPersistentFlagRequired("rules")

	rootCmd.AddCommand(newEvaluateCmd(), newValidateCmd())
	return rootCmd
}

func newEvaluateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate every rule against every flow",
		RunE:  runEvaluate,
	}
	cmd.Flags().StringVar(&flowsFile, "flows", "", "Flow CSV file (required)")
	cmd.Flags().StringVar(&outFile, "out", "results.csv", "Output CSV file for rule results")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Number of concurrent workers (default: from config)")
	cmd.MarkFlagRequired("flows")
	return cmd
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check rule values before they are deployed",
		RunE:  runValidate,
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file and lets explicitly set flags win.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("log-level") || cfg.Log.Level == "" {
		cfg.Log.Level = logLevel
	}
	if cmd.Flags().Changed("log-file") {
		cfg.Log.File = logFile
	}
	if workers > 0 {
		cfg.Workers = workers
	}
	return cfg, nil
}

func loadRules(path string) ([]model.PolicyRule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parser.ParseRules(f)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := setupLogger(cfg.Log.Level, cfg.Log.File)
	defer logger.Sync()

	rules, err := loadRules(rulesFile)
	if err != nil {
		logger.Error("Failed to load rules", zap.String("path", rulesFile), zap.Error(err))
		return err
	}

	v := validate.New(logger)
	invalid := 0
	for i := range rules {
		if err := v.Rule(&rules[i]); err != nil {
			invalid++
			logger.Warn("Invalid rule",
				zap.Int("index", i+1),
				zap.String("kind", model.ErrorKind(err)),
				zap.Error(err))
			fmt.Fprintf(cmd.OutOrStdout(), "rule %d: %v\n", i+1, err)
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d rules, %d invalid\n", len(rules), invalid)
	if invalid > 0 {
		return fmt.Errorf("%d invalid rules", invalid)
	}
	return nil
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	// --- 1. Setup Config and Logging ---
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := setupLogger(cfg.Log.Level, cfg.Log.File)
	defer logger.Sync()

	logger.Info("Starting static classifier", zap.Int("workers", cfg.Workers))
	startTime := time.Now()

	// --- 2. Load Rules and Flows ---
	rules, err := loadRules(rulesFile)
	if err != nil {
		logger.Error("Failed to load rules", zap.String("path", rulesFile), zap.Error(err))
		return err
	}
	flowsF, err := os.Open(flowsFile)
	if err != nil {
		logger.Error("Failed to open flow file", zap.String("path", flowsFile), zap.Error(err))
		return err
	}
	flows, skipped, err := parser.ParseFlows(flowsF)
	flowsF.Close()
	if err != nil {
		logger.Error("Failed to parse flow file", zap.String("path", flowsFile), zap.Error(err))
		return err
	}
	if skipped > 0 {
		logger.Warn("Skipped unparsable flow rows", zap.Int("skipped", skipped))
	}
	logger.Info("Inputs loaded", zap.Int("rules", len(rules)), zap.Int("flows", len(flows)))

	// --- 3. Create Evaluator ---
	dir, closeDir, err := cfg.OpenDirectory()
	if err != nil {
		logger.Error("Failed to open location directory", zap.Error(err))
		return err
	}
	defer closeDir()

	reg := prometheus.NewRegistry()
	evaluator := engine.NewEvaluator(dir,
		engine.WithLogger(logger),
		engine.WithMetrics(engine.NewMetrics(reg)))

	// --- 4. Evaluate ---
	var completed uint64
	if err := evaluateFlows(cmd.Context(), evaluator, flows, rules, cfg.Workers, outFile, &completed); err != nil {
		logger.Error("Evaluation failed", zap.Error(err))
		return err
	}

	logFailureSummary(logger, reg)
	logger.Info("Evaluation complete",
		zap.Uint64("results", atomic.LoadUint64(&completed)),
		zap.Duration("duration", time.Since(startTime)))
	return nil
}

// evaluateFlows fans flows out to workers; a single writer drains results
// into outPath.
func evaluateFlows(ctx context.Context, evaluator *engine.Evaluator, flows []model.Flow,
	rules []model.PolicyRule, workers int, outPath string, completed *uint64) error {

	if ctx == nil {
		ctx = context.Background()
	}
	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer out.Close()

	tasks := make(chan int, workers*4)
	results := make(chan model.RuleResult, workers*16)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(tasks)
		for i := range flows {
			select {
			case tasks <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	var workerGroup errgroup.Group
	for w := 0; w < workers; w++ {
		workerGroup.Go(func() error {
			return worker(ctx, evaluator, flows, rules, tasks, results)
		})
	}
	g.Go(func() error {
		err := workerGroup.Wait()
		close(results)
		return err
	})
	g.Go(func() error {
		return resultWriter(out, results, completed)
	})
	return g.Wait()
}

func worker(ctx context.Context, evaluator *engine.Evaluator, flows []model.Flow, rules []model.PolicyRule,
	tasks <-chan int, results chan<- model.RuleResult) error {

	clauses := make([]model.PolicyRule, len(rules))
	for i := range tasks {
		flow := &flows[i]
		copy(clauses, rules)
		evaluator.EvaluateAll(ctx, flow, clauses)
		for _, c := range clauses {
			r := model.RuleResult{
				FlowIndex: i + 1,
				Attribute: c.Attribute,
				Value:     c.Value,
				EthType:   wellknown.EnumerateEthType(flow.EthType),
				Proto:     wellknown.EnumerateIPProto(flow.Proto),
				Service:   dstService(flow),
				Match:     c.Match,
			}
			select {
			case results <- r:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return nil
}

// dstService describes the destination port of TCP and UDP flows.
func dstService(flow *model.Flow) string {
	switch layers.IPProtocol(flow.Proto) {
	case layers.IPProtocolTCP, layers.IPProtocolUDP:
		return wellknown.HoverPort(flow.Proto, flow.TPDst)
	}
	return ""
}

func resultWriter(out *os.File, results <-chan model.RuleResult, completed *uint64) error {
	w := csv.NewWriter(out)
	w.Write([]string{"flow", "eth_type", "proto", "service", "attribute", "value", "match"})

	var written uint64
	for r := range results {
		w.Write([]string{
			strconv.Itoa(r.FlowIndex),
			r.EthType,
			r.Proto,
			r.Service,
			string(r.Attribute),
			r.Value,
			strconv.FormatBool(r.Match),
		})
		written++
		if written%1024 == 0 {
			atomic.StoreUint64(completed, written)
		}
	}
	atomic.StoreUint64(completed, written)
	w.Flush()
	return w.Error()
}

func logFailureSummary(logger *zap.Logger, reg *prometheus.Registry) {
	families, err := reg.Gather()
	if err != nil {
		logger.Warn("Failed to gather metrics", zap.Error(err))
		return
	}
	for _, mf := range families {
		if !strings.HasSuffix(mf.GetName(), "failures_total") {
			continue
		}
		for _, m := range mf.GetMetric() {
			fields := []zap.Field{zap.Float64("count", m.GetCounter().GetValue())}
			for _, lp := range m.GetLabel() {
				fields = append(fields, zap.String(lp.GetName(), lp.GetValue()))
			}
			logger.Warn("Rules resolved to no match because of errors", fields...)
		}
	}
}

func setupLogger(level, logFilePath string) *zap.Logger {
	var sink zapcore.WriteSyncer = zapcore.Lock(os.Stderr)
	if logFilePath != "" {
		f, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err == nil {
			sink = zapcore.Lock(f)
		}
		// The logger isn't set up yet, so a bad path falls back to stderr silently.
	}

	var lvl zapcore.Level
	switch strings.ToUpper(level) {
	case "DEBUG":
		lvl = zapcore.DebugLevel
	case "INFO":
		lvl = zapcore.InfoLevel
	case "WARN":
		lvl = zapcore.WarnLevel
	case "ERROR":
		lvl = zapcore.ErrorLevel
	default:
		lvl = zapcore.InfoLevel
	}

	encoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	return zap.New(zapcore.NewCore(encoder, sink, lvl))
}
