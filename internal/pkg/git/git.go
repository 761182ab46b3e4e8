// Copyright (c) 2025, xXRoxXeRXx. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the LICENSE.md file
// distributed with the sources of this project regarding your rights to use or distribute this
// software.

// Package git derives version information from the state of a git working
// tree, for stamping into released binaries.
package git

import (
	"errors"
	"strings"
	"time"

	"github.com/blang/semver/v4"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

var errTagNotFound = errors.New("semantic version tag not found")

// taggedVersions maps commit hashes to the semantic versions tagged on them.
// Both annotated and lightweight tags are considered; tags that do not parse
// as a semantic version are ignored.
func taggedVersions(r *git.Repository) (map[plumbing.Hash]semver.Version, error) {
	// r.Tags rather than r.TagObjects: the latter includes unreferenced
	// objects such as deleted tags.
	iter, err := r.Tags()
	if err != nil {
		return nil, err
	}

	versions := make(map[plumbing.Hash]semver.Version)

	err = iter.ForEach(func(ref *plumbing.Reference) error {
		v, err := semver.Parse(strings.TrimPrefix(ref.Name().Short(), "v"))
		if err != nil {
			return nil
		}

		obj, err := r.TagObject(ref.Hash())
		switch {
		case err == nil:
			versions[obj.Target] = v
		case errors.Is(err, plumbing.ErrObjectNotFound):
			versions[ref.Hash()] = v
		default:
			return err
		}
		return nil
	})

	return versions, err
}

// Description records the state of a working tree at a commit: the commit
// itself, the nearest reachable semantic version tag, the distance to it,
// and whether the tree carries local modifications.
type Description struct {
	hash    plumbing.Hash
	when    time.Time
	clean   bool
	nearest *semver.Version
	depth   uint64
}

// Describe describes HEAD of the git repository at path.
func Describe(path string) (*Description, error) {
	r, err := git.PlainOpen(path)
	if err != nil {
		return nil, err
	}

	head, err := r.Head()
	if err != nil {
		return nil, err
	}

	c, err := r.CommitObject(head.Hash())
	if err != nil {
		return nil, err
	}

	d := Description{
		hash: c.Hash,
		when: c.Committer.When,
	}

	versions, err := taggedVersions(r)
	if err != nil {
		return nil, err
	}

	// Walk the log from HEAD until a tagged commit is found, counting the
	// commits in between.
	logIter, err := r.Log(&git.LogOptions{
		Order: git.LogOrderCommitterTime,
		From:  c.Hash,
	})
	if err != nil {
		return nil, err
	}

	err = logIter.ForEach(func(c *object.Commit) error {
		if v, ok := versions[c.Hash]; ok {
			d.nearest = &v
			return storer.ErrStop
		}
		d.depth++
		return nil
	})
	if err != nil {
		return nil, err
	}

	w, err := r.Worktree()
	if err != nil {
		return nil, err
	}

	status, err := w.Status()
	if err != nil {
		return nil, err
	}
	d.clean = status.IsClean()

	return &d, nil
}

// IsClean returns true if the working tree has no local modifications.
func (d *Description) IsClean() bool {
	return d.clean
}

// CommitHash returns the hash of the described commit.
func (d *Description) CommitHash() string {
	return d.hash.String()
}

// CommitTime returns the committer time of the described commit.
func (d *Description) CommitTime() time.Time {
	return d.when
}

// Version returns the semantic version of the described commit. A commit
// tagged directly yields the tagged version. Otherwise a version is derived
// from the nearest tag that preserves semantic precedence: "0.devel.N"
// pre-release components are appended, with the patch component bumped
// first when the tag carries no pre-release of its own.
func (d *Description) Version() (semver.Version, error) {
	if d.nearest == nil {
		return semver.Version{}, errTagNotFound
	}

	v := *d.nearest
	if d.depth > 0 {
		if len(v.Pre) == 0 {
			v.Patch++
		}

		v.Pre = append(v.Pre,
			semver.PRVersion{VersionNum: 0, IsNum: true},
			semver.PRVersion{VersionStr: "devel"},
			semver.PRVersion{VersionNum: d.depth, IsNum: true},
		)
	}

	return v, nil
}
