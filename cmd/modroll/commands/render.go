package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/modroll/internal/core/domain"
	"go.trai.ch/modroll/internal/ui/style"
)

func renderPlan(w io.Writer, plan *domain.Plan) error {
	var s strings.Builder
	for i, layer := range plan.Layers {
		s.WriteString(style.Heading.Render(fmt.Sprintf("Layer %d", i)) + "\n")
		for _, name := range layer {
			pkg, _ := plan.Package(name)
			s.WriteString("  " + packageLine(pkg) + "\n")
		}
	}

	for _, name := range plan.Excluded {
		s.WriteString(style.Pending.Render(style.Warning) + " " + name + " " +
			style.Muted.Render("not found in registry, excluded") + "\n")
	}

	s.WriteString(style.Muted.Render(fmt.Sprintf("%d to update, fingerprint %s",
		len(plan.Outdated()), plan.Fingerprint())) + "\n")

	_, err := io.WriteString(w, s.String())
	return err
}

func renderOutdated(w io.Writer, pkgs []domain.PackageDescriptor) error {
	if len(pkgs) == 0 {
		_, err := fmt.Fprintln(w, style.Success.Render(style.Check)+" all modules are up to date")
		return err
	}

	width := 0
	for _, p := range pkgs {
		width = max(width, lipgloss.Width(p.Name))
	}
	name := lipgloss.NewStyle().Width(width)

	var s strings.Builder
	for _, p := range pkgs {
		s.WriteString(name.Render(p.Name) + "  " + versionChange(p) + "\n")
	}
	_, err := io.WriteString(w, s.String())
	return err
}

func packageLine(p domain.PackageDescriptor) string {
	if p.UpToDate() {
		return style.Muted.Render(style.Circle+" "+p.Name+" "+p.InstalledVersion+" up to date")
	}
	return style.Pending.Render(style.Dot) + " " + p.Name + " " + versionChange(p)
}

func versionChange(p domain.PackageDescriptor) string {
	from := p.InstalledVersion
	if from == "" {
		from = "none"
	}
	return style.Muted.Render(from) + " " + style.Arrow + " " + style.Success.Render(p.LatestVersion)
}
