package render

import (
	"context"
	"os/exec"
)

// Steps are the tool invocations of a build.
type Steps struct {
	Renderer Renderer
	// Python runs quartodoc; empty means python3 when available, else python.
	Python string
}

func (s Steps) python() string {
	if s.Python != "" {
		return s.Python
	}
	if _, err := exec.LookPath("python3"); err == nil {
		return "python3"
	}
	return "python"
}

// QuartodocBuild generates the reference pages.
func (s Steps) QuartodocBuild(ctx context.Context, dir string) error {
	return s.Renderer.Run(ctx, dir, s.python(), "-m", "quartodoc", "build")
}

// QuartoRender renders the site into _site.
func (s Steps) QuartoRender(ctx context.Context, dir string) error {
	return s.Renderer.Run(ctx, dir, "quarto", "render")
}

// QuartoPreview serves the site locally until ctx is cancelled.
func (s Steps) QuartoPreview(ctx context.Context, dir string, browser bool) error {
	if browser {
		return s.Renderer.Run(ctx, dir, "quarto", "preview")
	}
	return s.Renderer.Run(ctx, dir, "quarto", "preview", "--no-browser")
}
