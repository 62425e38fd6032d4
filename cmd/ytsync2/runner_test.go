package main

import (
	"bytes"
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/joodicator/youtube-sync-2/internal/youtube"
)

func TestParseRefresh(t *testing.T) {
	tests := []struct {
		value         string
		allowAll      bool
		wantPlaylists bool
		wantItems     bool
		wantErr       bool
	}{
		{value: "none", allowAll: true},
		{value: "playlists", allowAll: true, wantPlaylists: true},
		{value: "all", allowAll: true, wantPlaylists: true, wantItems: true},
		{value: "all", allowAll: false, wantErr: true},
		{value: "everything", allowAll: true, wantErr: true},
		{value: "", allowAll: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			playlists, items, err := parseRefresh(tt.value, tt.allowAll)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseRefresh(%q, %v) error = %v", tt.value, tt.allowAll, err)
			}
			if playlists != tt.wantPlaylists || items != tt.wantItems {
				t.Errorf("parseRefresh(%q, %v) = %v, %v", tt.value, tt.allowAll, playlists, items)
			}
		})
	}
}

func TestParseRegions(t *testing.T) {
	tests := []struct {
		value string
		want  []string
	}{
		{value: "", want: nil},
		{value: "de", want: []string{"DE"}},
		{value: "de, us ,GB", want: []string{"DE", "US", "GB"}},
		{value: ",,", want: nil},
	}

	for _, tt := range tests {
		if got := parseRegions(tt.value); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseRegions(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

// parseSyncArgs runs a real command parse and returns what the action sees.
func parseSyncArgs(t *testing.T, argv []string) []string {
	t.Helper()
	var parsed []string
	app := &cli.Command{
		Name: "ytsync2",
		Commands: []*cli.Command{{
			Name:  "sync",
			Flags: commonFlags(),
			Action: func(ctx context.Context, cmd *cli.Command) error {
				parsed = cmd.Args().Slice()
				return nil
			},
		}},
	}
	if err := app.Run(context.Background(), argv); err != nil {
		t.Fatal(err)
	}
	return parsed
}

func TestSplitArgsRecoversTerminator(t *testing.T) {
	// The parser swallows the "--" terminator: the action receives one flat
	// argument list, and the split falls back on the raw process arguments.
	argv := []string{"ytsync2", "sync", "https://example.test/pl", "--", "-f", "best"}
	parsed := parseSyncArgs(t, argv)

	urls, passthrough := splitArgs(parsed, argv)
	if !reflect.DeepEqual(urls, []string{"https://example.test/pl"}) {
		t.Errorf("urls = %v", urls)
	}
	if !reflect.DeepEqual(passthrough, []string{"-f", "best"}) {
		t.Errorf("passthrough = %v", passthrough)
	}
}

func TestSplitArgsWithoutTerminator(t *testing.T) {
	argv := []string{"ytsync2", "sync", "pl1", "pl2"}
	parsed := parseSyncArgs(t, argv)

	urls, passthrough := splitArgs(parsed, argv)
	if !reflect.DeepEqual(urls, []string{"pl1", "pl2"}) || passthrough != nil {
		t.Errorf("splitArgs() = %v, %v", urls, passthrough)
	}
}

func TestSplitArgsInterleavedFlags(t *testing.T) {
	argv := []string{"ytsync2", "sync", "--exclude", "new/", "pl1", "--", "--format", "best"}
	parsed := parseSyncArgs(t, argv)

	urls, passthrough := splitArgs(parsed, argv)
	if !reflect.DeepEqual(urls, []string{"pl1"}) {
		t.Errorf("urls = %v", urls)
	}
	if !reflect.DeepEqual(passthrough, []string{"--format", "best"}) {
		t.Errorf("passthrough = %v", passthrough)
	}
}

// runLogin invokes Runner.login through a real command parse.
func runLogin(t *testing.T, r *Runner, args ...string) (*youtube.Credentials, error) {
	t.Helper()
	var login *youtube.Credentials
	var loginErr error
	cmd := &cli.Command{
		Name:  "test",
		Flags: commonFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			login, loginErr = r.login(cmd)
			return nil
		},
	}
	if err := cmd.Run(context.Background(), append([]string{"test"}, args...)); err != nil {
		t.Fatal(err)
	}
	return login, loginErr
}

func TestLoginPromptsForPassword(t *testing.T) {
	var prompt bytes.Buffer
	r := NewRunner(RunnerOpts{
		Logger: log.New(&prompt),
		Stdin:  strings.NewReader("hunter2\n"),
		Stderr: &prompt,
		Stdout: &bytes.Buffer{},
	})

	login, err := runLogin(t, r, "--username", "alice")
	if err != nil {
		t.Fatalf("login() error = %v", err)
	}
	if login == nil || login.Username != "alice" || login.Password != "hunter2" {
		t.Errorf("login = %+v", login)
	}
	if !strings.Contains(prompt.String(), "Enter password for alice: ") {
		t.Errorf("prompt = %q", prompt.String())
	}
}

func TestLoginExplicitPassword(t *testing.T) {
	r := NewRunner(RunnerOpts{
		Logger: log.New(&bytes.Buffer{}),
		Stdin:  strings.NewReader(""),
		Stderr: &bytes.Buffer{},
		Stdout: &bytes.Buffer{},
	})

	login, err := runLogin(t, r, "--username", "alice", "--password", "hunter2")
	if err != nil || login == nil || login.Password != "hunter2" {
		t.Errorf("login = %+v, %v", login, err)
	}
}

func TestLoginAbsentWithoutUsername(t *testing.T) {
	r := NewRunner(RunnerOpts{Logger: log.New(&bytes.Buffer{})})
	login, err := runLogin(t, r)
	if err != nil || login != nil {
		t.Errorf("login() = %+v, %v; want nil, nil", login, err)
	}
}
