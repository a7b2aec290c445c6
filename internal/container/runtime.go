// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package container detects a local container runtime and runs one-shot,
// network-isolated filter containers (stdin in, stdout out). Source
// ingestion uses it to turn uploaded PDFs into text.
package container

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

const (
	binDocker = "docker"
	binPodman = "podman"
)

// Runtime provides the container operations source ingestion needs.
type Runtime interface {
	// Name returns the runtime name ("docker" or "podman").
	Name() string

	// Available reports whether the runtime binary exists on PATH and
	// responds to an info command.
	Available(ctx context.Context) bool

	// ImageExists returns nil when image is present locally.
	ImageExists(ctx context.Context, image string) error

	// Filter runs image with stdin attached and no network, copying the
	// container's stdout to stdout.
	Filter(ctx context.Context, image string, stdin io.Reader, stdout io.Writer) error
}

// commander abstracts process execution for testing.
type commander interface {
	LookPath(file string) (string, error)
	Quiet(ctx context.Context, name string, args ...string) error
	Pipe(ctx context.Context, name string, args []string, stdin io.Reader, stdout io.Writer) error
}

// osCommander runs real processes.
type osCommander struct{}

func (osCommander) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (osCommander) Quiet(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

func (osCommander) Pipe(ctx context.Context, name string, args []string, stdin io.Reader, stdout io.Writer) error {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}

// cli implements Runtime for docker and podman, which differ only in the
// binary name and the image-check subcommand.
type cli struct {
	bin        string
	inspectCmd []string
	cmd        commander
}

func (c *cli) Name() string { return c.bin }

func (c *cli) Available(ctx context.Context) bool {
	if _, err := c.cmd.LookPath(c.bin); err != nil {
		return false
	}
	return c.cmd.Quiet(ctx, c.bin, "info") == nil
}

func (c *cli) ImageExists(ctx context.Context, image string) error {
	args := append(append([]string{}, c.inspectCmd...), image)
	if err := c.cmd.Quiet(ctx, c.bin, args...); err != nil {
		return fmt.Errorf("image %s not found in %s: %w", image, c.bin, err)
	}
	return nil
}

func (c *cli) Filter(ctx context.Context, image string, stdin io.Reader, stdout io.Writer) error {
	args := []string{"run", "--rm", "-i", "--network", "none", image}
	if err := c.cmd.Pipe(ctx, c.bin, args, stdin, stdout); err != nil {
		return fmt.Errorf("running %s container %s: %w", c.bin, image, err)
	}
	return nil
}

func newDocker(cmd commander) *cli {
	return &cli{bin: binDocker, inspectCmd: []string{"image", "inspect"}, cmd: cmd}
}

func newPodman(cmd commander) *cli {
	return &cli{bin: binPodman, inspectCmd: []string{"image", "exists"}, cmd: cmd}
}

// Detect returns docker when it is operational, otherwise podman.
func Detect(ctx context.Context) (Runtime, error) {
	return detect(ctx, osCommander{})
}

func detect(ctx context.Context, cmd commander) (Runtime, error) {
	for _, rt := range []*cli{newDocker(cmd), newPodman(cmd)} {
		if rt.Available(ctx) {
			return rt, nil
		}
	}
	return nil, fmt.Errorf(
		"no container runtime available: neither %s nor %s found or operational",
		binDocker, binPodman,
	)
}
