package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbukum/yake/config"
	"github.com/kbukum/yake/dag"
	"github.com/kbukum/yake/errors"
	"github.com/kbukum/yake/logger"
	"github.com/kbukum/yake/target"
	"github.com/kbukum/yake/yakefile"
)

// options holds the global flags.
type options struct {
	file       string
	configFile string
	params     []string
	logLevel   string
	logFormat  string
	envFile    string
	shell      string
	policy     string
	timeout    time.Duration
	quiet      bool

	stdout io.Writer
	stderr io.Writer
}

// app is everything a subcommand needs after flags are parsed.
type app struct {
	cfg    *config.Config
	graph  *dag.Graph
	params map[string]string
	// base is untagged; packages add their own component.
	base *logger.Logger
	log  *logger.Logger
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	o := &options{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "yake [targets...]",
		Short: "Run targets declared in a Yakefile",
		Long: `yake runs command targets declared in a YAML Yakefile.

Targets are addressed by dotted paths (docker.postgres). A group runs
every command below it. Dependencies run first, each at most once.

A target named like a subcommand (run, list, plan, version) is run
with "yake run <target>".`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTargets(cmd, o, args)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errors.New(errors.ErrCodeInvalidInput, err.Error())
	})

	pf := root.PersistentFlags()
	pf.StringVarP(&o.file, "file", "f", "", "Yakefile to load (default: search the working directory)")
	pf.StringVar(&o.configFile, "config", "", "runner config file (default: .yake.yml)")
	pf.StringArrayVarP(&o.params, "parameter", "p", nil, "template parameter key=value, repeatable")
	pf.StringVar(&o.logLevel, "log-level", "", "log level: debug|info|warn|error")
	pf.StringVar(&o.logFormat, "log-format", "", "log format: console|json")
	pf.StringVar(&o.envFile, "env-file", "", "dotenv file overlaid on the command environment")
	pf.StringVar(&o.shell, "shell", "", "shell used as <shell> -c <line> (default: bash)")
	pf.StringVar(&o.policy, "policy", "", "failure policy: fail-fast|skip-dependents")
	pf.DurationVar(&o.timeout, "timeout", 0, "timeout for each exec step (0 disables)")
	pf.BoolVarP(&o.quiet, "quiet", "q", false, "do not announce steps")

	root.AddCommand(
		newRunCmd(o),
		newListCmd(o),
		newPlanCmd(o),
		newVersionCmd(o),
	)
	return root
}

// load resolves configuration, applies flag overrides and builds the graph.
func (o *options) load(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(config.WithConfigFile(o.configFile))
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("file") {
		cfg.Yakefile = o.file
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = o.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = o.logFormat
	}
	if flags.Changed("env-file") {
		cfg.EnvFile = o.envFile
	}
	if flags.Changed("shell") {
		cfg.Shell = o.shell
	}
	if flags.Changed("policy") {
		cfg.Policy = o.policy
	}
	if flags.Changed("timeout") {
		cfg.Timeout = o.timeout
	}
	if flags.Changed("quiet") {
		cfg.Quiet = o.quiet
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Init(&cfg.Logging)
	base := logger.GetGlobalLogger()
	log := logger.Get("cli")

	params, err := parseParams(o.params)
	if err != nil {
		return nil, err
	}

	path := cfg.Yakefile
	if path == "" {
		dir := cfg.Dir
		if dir == "" {
			dir = "."
		}
		if path, err = yakefile.Find(dir); err != nil {
			return nil, err
		}
	}
	def, err := yakefile.Load(path)
	if err != nil {
		return nil, err
	}
	tree, err := target.Build(def)
	if err != nil {
		return nil, err
	}
	g, err := dag.Build(tree)
	if err != nil {
		return nil, err
	}
	log.Debug("yakefile loaded", logger.Fields("path", path, "commands", len(g.Nodes())))
	o.warnShadowed(cmd, tree)

	return &app{cfg: cfg, graph: g.WithLogger(base), params: params, base: base, log: log}, nil
}

// warnShadowed points at "yake run" when the invoked subcommand has the name
// of a top-level target. "yake run <name>" with arguments is not shadowed.
func (o *options) warnShadowed(cmd *cobra.Command, tree *target.Tree) {
	name := cmd.Name()
	if !cmd.HasParent() || (name == "run" && cmd.Flags().NArg() > 0) {
		return
	}
	if _, err := tree.Lookup(name); err != nil {
		return
	}
	fmt.Fprintf(o.stderr, "yake: target %q is shadowed by the %s subcommand; use: yake run %s\n", name, name, name)
}

// parseParams turns repeated key=value flags into a map. Later keys win.
func parseParams(raw []string) (map[string]string, error) {
	params := make(map[string]string, len(raw))
	for _, p := range raw {
		key, value, ok := strings.Cut(strings.TrimSpace(p), "=")
		if !ok || key == "" {
			return nil, errors.InvalidInput("parameter", "expected key=value, got "+p)
		}
		params[key] = value
	}
	return params, nil
}
