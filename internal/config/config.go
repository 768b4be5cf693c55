// Package config resolves the effective settings for one invocation.
//
// Resolution precedence per field, highest first: environment variable,
// field in the optional .agentmux/config.json, computed default. The result
// is built once at startup and passed to every component constructor.
package config

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/tidwall/gjson"
)

// Environment variable overrides, one per Config field, plus the config
// file path override.
const (
	EnvWorktreeDir   = "AGENTMUX_WORKTREE_DIR"
	EnvSession       = "AGENTMUX_SESSION"
	EnvRepoName      = "AGENTMUX_REPO_NAME"
	EnvDefaultBranch = "AGENTMUX_DEFAULT_BRANCH"
	EnvConfigFile    = "AGENTMUX_CONFIG"
)

// DefaultConfigPath is the project-local config file location, relative to
// the working directory.
const DefaultConfigPath = ".agentmux/config.json"

// Config holds the resolved settings for one invocation. All fields are
// always populated; treat the value as immutable after Load.
type Config struct {
	WorktreeRoot  string // base directory for all worker worktrees
	SessionName   string // tmux session used for workers
	RepoName      string // naming prefix for worktree directories
	DefaultBranch string // base revision new worktrees branch from
}

// WorktreePath returns the worktree directory for a branch:
// WorktreeRoot/<RepoName>_<branch>.
func (c Config) WorktreePath(branch string) string {
	return filepath.Join(c.WorktreeRoot, c.RepoName+"_"+branch)
}

// WindowTarget returns the tmux addressing token for a branch's window.
func (c Config) WindowTarget(branch string) string {
	return c.SessionName + ":" + branch
}

// WorktreePrefix returns the directory-name prefix that marks a worktree
// as one of ours.
func (c Config) WorktreePrefix() string {
	return c.RepoName + "_"
}

// Load resolves the effective configuration from the environment, the
// working directory, and the optional JSON config file. A missing or
// malformed config file is never fatal: the loader warns and falls through
// to the rest of the precedence chain.
func Load(cwd string, logger *log.Logger) Config {
	file := loadFile(cwd, logger)

	repoName := resolve(EnvRepoName, file, "repoName", filepath.Base(cwd))

	home, err := os.UserHomeDir()
	if err != nil {
		logger.Warn("could not determine home directory, using working directory", "err", err)
		home = cwd
	}

	return Config{
		WorktreeRoot:  resolve(EnvWorktreeDir, file, "worktreeDir", filepath.Join(home, ".agentmux", "worktrees")),
		SessionName:   resolve(EnvSession, file, "session", repoName),
		RepoName:      repoName,
		DefaultBranch: resolve(EnvDefaultBranch, file, "defaultBranch", "main"),
	}
}

// resolve applies the precedence chain for a single field.
func resolve(envVar string, file gjson.Result, jsonField, fallback string) string {
	if v := os.Getenv(envVar); v != "" {
		return v
	}
	if v := file.Get(jsonField); v.Type == gjson.String && v.Str != "" {
		return v.Str
	}
	return fallback
}

// loadFile reads the optional project config file. gjson tolerates partial
// garbage, but a file that is not a JSON object at all is reported once and
// ignored wholesale.
func loadFile(cwd string, logger *log.Logger) gjson.Result {
	path := os.Getenv(EnvConfigFile)
	if path == "" {
		path = filepath.Join(cwd, DefaultConfigPath)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("could not read config file", "path", path, "err", err)
		}
		return gjson.Result{}
	}

	if !gjson.ValidBytes(data) {
		logger.Warn("config file is not valid JSON, using defaults", "path", path)
		return gjson.Result{}
	}

	return gjson.ParseBytes(data)
}
