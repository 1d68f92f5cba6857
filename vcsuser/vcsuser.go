// Package vcsuser derives the acting user for a changelog entry: VCS
// config first, environment next, a fixed fallback last.
package vcsuser

import (
	"os"

	"github.com/go-git/go-git/v5"
)

// Detect returns the user.email from the repository's VCS config at
// projectRoot, falling back to the USER/USERNAME environment variables,
// then the literal string "unknown".
func Detect(projectRoot string) string {
	if email := fromGitConfig(projectRoot); email != "" {
		return email
	}
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	if u := os.Getenv("USERNAME"); u != "" {
		return u
	}
	return "unknown"
}

func fromGitConfig(projectRoot string) string {
	repo, err := git.PlainOpenWithOptions(projectRoot, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return ""
	}
	cfg, err := repo.Config()
	if err != nil {
		return ""
	}
	return cfg.User.Email
}
