package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/3leaps/ubi"
)

// RunUbi is wired as Handler by cmd/ubi's init, kept in its own testable
// function the same way the CLI-vs-library split is drawn elsewhere in
// this codebase: flag parsing and exit-code mapping live here, never in
// the ubi package itself.
func RunUbi(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("ubi", flag.ContinueOnError)
	fs.SetOutput(stderr)

	project := fs.String("project", "", "owner/repo on the selected forge")
	url := fs.String("url", "", "direct asset download URL (mutually exclusive with -project)")
	tag := fs.String("tag", "", "release tag (default: latest)")
	dir := fs.String("in", ".", "install directory")
	exe := fs.String("exe", "", "executable name to look for inside an archive")
	renameTo := fs.String("rename-to", "", "final filename override")
	extractAll := fs.Bool("extract-all", false, "extract every archive member instead of picking one")
	matching := fs.String("matching", "", "substring hint narrowing ambiguous candidates")
	matchingRegex := fs.String("matching-regex", "", "regex hint narrowing ambiguous candidates")
	forgeName := fs.String("forge", "auto", "forge selector: auto | github | gitlab")
	apiBase := fs.String("api-base", "", "override the forge's default API base URL")
	token := fs.String("token", "", "bearer/PRIVATE-TOKEN credential for the forge")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	builder := ubi.NewBuilder().
		Project(*project).
		URL(*url).
		Tag(*tag).
		Dir(*dir).
		Exe(*exe).
		RenameExeTo(*renameTo).
		ExtractAll(*extractAll).
		Matching(*matching).
		MatchingRegex(*matchingRegex).
		Token(*token)

	if *apiBase != "" {
		builder = builder.APIBase(*apiBase)
	}
	switch *forgeName {
	case "github":
		builder = builder.ForgeSelector(ubi.ForgeGitHub)
	case "gitlab":
		builder = builder.ForgeSelector(ubi.ForgeGitLab)
	}

	req, err := builder.Build()
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitCodeForError(err)
	}

	result, err := ubi.Run(context.Background(), req)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitCodeForError(err)
	}

	fmt.Fprintf(stdout, "installed %s (%s)\n", result.Path, result.AssetName)
	return 0
}

// exitCodeForError maps a Kind to a process exit code so scripts can
// branch on failure category without parsing the message.
func exitCodeForError(err error) int {
	var e *ubi.Error
	if !errors.As(err, &e) {
		return 1
	}
	switch e.Kind {
	case ubi.InvalidRequest:
		return 2
	case ubi.Unauthorized, ubi.RateLimited:
		return 3
	case ubi.NotFound, ubi.NoMatch, ubi.NoExecutableFound:
		return 4
	case ubi.UnsafePath:
		return 5
	default:
		return 1
	}
}
