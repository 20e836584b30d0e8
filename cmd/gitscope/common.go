package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/odvcencio/gitscope/internal/config"
	"github.com/odvcencio/gitscope/internal/logging"
	"github.com/odvcencio/gitscope/pkg/archive"
	"github.com/odvcencio/gitscope/pkg/object"
	"github.com/odvcencio/gitscope/pkg/repo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// globalFlags are shared by every command and override the config file.
type globalFlags struct {
	configPath string
	logLevel   string
	jsonLogs   bool
	workers    int
	noVerify   bool
	noColor    bool
}

func (f *globalFlags) register(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "path to a gitscope.toml config file")
	pf.StringVar(&f.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.BoolVar(&f.jsonLogs, "log-json", false, "emit logs as JSON")
	pf.IntVar(&f.workers, "workers", 0, "number of objects decoded in parallel")
	pf.BoolVar(&f.noVerify, "no-verify", false, "skip checking object content against its hash")
	pf.BoolVar(&f.noColor, "no-color", false, "disable colored output")
}

// load resolves the config with flag overrides applied and builds a logger.
func (f *globalFlags) load(cmd *cobra.Command) (*config.Config, *zap.SugaredLogger, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if flags.Changed("log-json") {
		cfg.LogJSON = f.jsonLogs
	}
	if flags.Changed("workers") {
		cfg.Workers = f.workers
	}
	if f.noVerify {
		cfg.VerifyObjects = false
	}
	if f.noColor {
		color.NoColor = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogJSON)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

// openSnapshot reads an archive file or a checkout directory and parses it.
func (f *globalFlags) openSnapshot(cmd *cobra.Command, path string) (*repo.Snapshot, error) {
	cfg, log, err := f.load(cmd)
	if err != nil {
		return nil, err
	}
	defer func() { _ = log.Sync() }()

	entries, err := readEntries(cmd, path, cfg.Limits())
	if err != nil {
		return nil, err
	}

	opts := cfg.ParserOptions()
	opts.Logger = log
	snap, err := repo.NewParser(opts).Parse(cmd.Context(), entries)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return snap, nil
}

func readEntries(cmd *cobra.Command, path string, limits archive.Limits) (archive.Entries, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return archive.ReadDir(cmd.Context(), path, limits)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return archive.Read(cmd.Context(), info.Name(), f, limits)
}

// resolveCommit resolves rev and requires it to name a commit.
func resolveCommit(snap *repo.Snapshot, rev string) (*repo.Commit, error) {
	h, err := snap.ResolveRevision(rev)
	if err != nil {
		return nil, err
	}
	c, ok := snap.Commit(h)
	if !ok {
		return nil, fmt.Errorf("%s is not a commit", rev)
	}
	return c, nil
}

var (
	hashColor   = color.New(color.FgYellow).SprintFunc()
	headColor   = color.New(color.FgCyan, color.Bold).SprintFunc()
	branchColor = color.New(color.FgGreen, color.Bold).SprintFunc()
	tagColor    = color.New(color.FgYellow, color.Bold).SprintFunc()
	addColor    = color.New(color.FgGreen).SprintFunc()
	delColor    = color.New(color.FgRed).SprintFunc()
)

// formatIdentity renders "Name <email>", or "unknown" when absent.
func formatIdentity(id *object.Identity) string {
	if id == nil {
		return "unknown"
	}
	return fmt.Sprintf("%s <%s>", id.Name, id.Email)
}

// formatDate renders a commit date with its original offset label, or "-"
// when the commit carries no date.
func formatDate(c *repo.Commit) string {
	if c.Date.IsZero() {
		return "-"
	}
	tz := "+0000"
	if c.Author != nil && c.Author.Timezone != "" {
		tz = c.Author.Timezone
	} else if c.Author == nil && c.Committer != nil && c.Committer.Timezone != "" {
		tz = c.Committer.Timezone
	}
	return c.Date.Format("2006-01-02 15:04:05") + " UTC (" + tz + ")"
}

// decoration returns "(HEAD -> main, v1.0)" style ref labels for h.
func decoration(snap *repo.Snapshot, h object.Hash) string {
	var labels []string
	headHash, headOK := snap.HeadCommit()
	for _, b := range snap.Branches {
		if b.Hash != h {
			continue
		}
		if headOK && snap.Head.Kind == repo.HeadSymbolic && snap.Head.Branch == b.Name {
			labels = append(labels, headColor("HEAD -> ")+branchColor(b.Name))
			continue
		}
		labels = append(labels, branchColor(b.Name))
	}
	if headOK && snap.Head.Kind == repo.HeadDetached && headHash == h {
		labels = append([]string{headColor("HEAD")}, labels...)
	}
	for _, t := range snap.Tags {
		if t.Target() == h {
			labels = append(labels, tagColor("tag: "+t.Name))
		}
	}
	if len(labels) == 0 {
		return ""
	}
	return "(" + strings.Join(labels, ", ") + ")"
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02 15:04:05")
}
