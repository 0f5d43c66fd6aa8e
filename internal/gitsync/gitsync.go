// Package gitsync keeps the output directory under git, committing ledger
// updates after successful runs. Pure Go via go-git; no git binary needed.
package gitsync

import (
	"fmt"
	"os"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Syncer commits files in a git repository rooted at the output directory.
type Syncer struct {
	dir   string
	name  string
	email string
	repo  *gogit.Repository
}

// Open opens the repository at dir, initializing it on first use. The
// committer identity is written to the repo config when initializing.
func Open(dir, name, email string) (*Syncer, error) {
	if name == "" {
		name = "wakasync"
	}
	if email == "" {
		email = "wakasync@localhost"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create repo directory: %w", err)
	}

	repo, err := gogit.PlainOpen(dir)
	if err != nil {
		// Not a repo yet — initialize.
		repo, err = gogit.PlainInit(dir, false)
		if err != nil {
			return nil, fmt.Errorf("initialize git repo: %w", err)
		}
		cfg, err := repo.Config()
		if err != nil {
			return nil, fmt.Errorf("read git config: %w", err)
		}
		cfg.User.Name = name
		cfg.User.Email = email
		if err := repo.SetConfig(cfg); err != nil {
			return nil, fmt.Errorf("write git config: %w", err)
		}
	}

	return &Syncer{dir: dir, name: name, email: email, repo: repo}, nil
}

// Commit stages the given files (paths relative to the repo root) and commits
// them if anything changed. A clean worktree is a no-op, not an error.
func (s *Syncer) Commit(msg string, files ...string) error {
	w, err := s.repo.Worktree()
	if err != nil {
		return fmt.Errorf("get worktree: %w", err)
	}

	for _, f := range files {
		if _, err := w.Add(f); err != nil {
			return fmt.Errorf("stage %s: %w", f, err)
		}
	}

	status, err := w.Status()
	if err != nil {
		return fmt.Errorf("get worktree status: %w", err)
	}
	if status.IsClean() {
		return nil
	}

	sig := &object.Signature{Name: s.name, Email: s.email, When: time.Now()}
	if _, err := w.Commit(msg, &gogit.CommitOptions{Author: sig, Committer: sig}); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
