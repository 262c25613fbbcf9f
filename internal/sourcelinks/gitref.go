package sourcelinks

import (
	"log/slog"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/rich-iannone/great-docs/internal/logfields"
)

// DefaultRef is linked to when no git ref can be detected.
const DefaultRef = "main"

// DetectRef returns the tag pointing exactly at HEAD, else the checked-out branch,
// else DefaultRef. dir may be any directory inside the work tree.
func DetectRef(dir string) string {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		slog.Debug("No git repository for source links", logfields.Path(dir), logfields.Error(err))
		return DefaultRef
	}
	head, err := repo.Head()
	if err != nil {
		slog.Debug("Cannot resolve HEAD", logfields.Path(dir), logfields.Error(err))
		return DefaultRef
	}
	if tag := exactTag(repo, head.Hash()); tag != "" {
		return tag
	}
	if head.Name().IsBranch() {
		return head.Name().Short()
	}
	return DefaultRef
}

func exactTag(repo *git.Repository, commit plumbing.Hash) string {
	tags, err := repo.Tags()
	if err != nil {
		return ""
	}
	defer tags.Close()

	var found string
	_ = tags.ForEach(func(ref *plumbing.Reference) error {
		target := ref.Hash()
		if obj, err := repo.TagObject(target); err == nil {
			target = obj.Target
		}
		if target == commit {
			found = ref.Name().Short()
			return storer.ErrStop
		}
		return nil
	})
	return found
}
