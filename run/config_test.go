package run

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/whatmeme/whatmeme-webapp/cli"
	"github.com/whatmeme/whatmeme-webapp/types"
)

func envMap(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func TestResolveConfigPrecedence(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "whatmeme.yaml")
	content := "api_key: ${TEST_WHATMEME_KEY}\nmodel: gpt-4.1\nmcp_server_url: http://file/mcp\nport: 4000\n"
	if err := os.WriteFile(file, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TEST_WHATMEME_KEY", "file-key")

	tests := []struct {
		name  string
		env   map[string]string
		flags configFlags
		want  types.Config
	}{
		{
			name: "file only",
			want: types.Config{APIKey: "file-key", Model: "gpt-4.1", MCPServerURL: "http://file/mcp", Port: 4000, Env: types.Env_Production},
		},
		{
			name: "env over file",
			env:  map[string]string{"OPENAI_MODEL": "gpt-4o", "PORT": "5000", "NODE_ENV": "development"},
			want: types.Config{APIKey: "file-key", Model: "gpt-4o", MCPServerURL: "http://file/mcp", Port: 5000, Env: types.Env_Development},
		},
		{
			name:  "flags over env",
			env:   map[string]string{"OPENAI_MODEL": "gpt-4o", "MCP_SERVER_URL": "http://env/mcp"},
			flags: configFlags{model: "claude-3-5-haiku-latest", mcpServerURL: "http://flag/mcp", port: 6000},
			want:  types.Config{APIKey: "file-key", Model: "claude-3-5-haiku-latest", MCPServerURL: "http://flag/mcp", Port: 6000, Env: types.Env_Production},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := tt.flags
			f.configFile = file
			got, err := ResolveConfig(&f, envMap(tt.env))
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("config = %+v\nwant %+v", got, tt.want)
			}
		})
	}
}

func TestResolveConfigDefaults(t *testing.T) {
	got, err := ResolveConfig(&configFlags{}, envMap(nil))
	if err != nil {
		t.Fatal(err)
	}
	if got.Model != types.DefaultModel || got.Port != types.DefaultPort || got.MCPServerURL != types.DefaultMCPServerURL {
		t.Errorf("config = %+v", got)
	}
	if got.APIKey != "" {
		t.Errorf("APIKey = %q", got.APIKey)
	}
}

func TestProviderAPIKeyFallback(t *testing.T) {
	env := envMap(map[string]string{"ANTHROPIC_API_KEY": "anth", "GEMINI_API_KEY": "gem"})
	for model, want := range map[string]string{
		"claude-3-5-haiku-latest": "anth",
		"gemini-2.0-flash":        "gem",
		"gpt-4o-mini":             "",
	} {
		got, err := ResolveConfig(&configFlags{model: model}, env)
		if err != nil {
			t.Fatal(err)
		}
		if got.APIKey != want {
			t.Errorf("%s: APIKey = %q, want %q", model, got.APIKey, want)
		}
	}
}

func TestApplyEnvRejectsBadPort(t *testing.T) {
	var config types.Config
	if err := ApplyEnv(&config, envMap(map[string]string{"PORT": "abc"})); err == nil {
		t.Error("expected error")
	}
}

func TestLoadConfigJSON(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.json")
	os.WriteFile(file, []byte(`{"model":"gemini-2.5-flash","port":3100}`), 0644)
	got, err := LoadConfig(file)
	if err != nil {
		t.Fatal(err)
	}
	if got.Model != "gemini-2.5-flash" || got.Port != 3100 {
		t.Errorf("config = %+v", got)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error")
	}
}

type echoTransport struct{}

func (echoTransport) Send(ctx context.Context, history []types.ChatMessage, handle cli.Handler) error {
	handle(types.DeltaEvent("re: " + history[len(history)-1].Content))
	return handle(types.DoneEvent())
}

func TestChatLoop(t *testing.T) {
	var out bytes.Buffer
	renderer := cli.NewRenderer(&out)
	conv := cli.NewConversation(echoTransport{}, cli.WithEventCallback(renderer.Event))

	in := strings.NewReader("안녕\n\n밈 추천\nexit\nignored\n")
	if err := chatLoop(context.Background(), conv, renderer, in, false); err != nil {
		t.Fatal(err)
	}
	if got := out.String(); got != "re: 안녕\nre: 밈 추천\n" {
		t.Errorf("output = %q", got)
	}
	if n := len(conv.Messages()); n != 4 {
		t.Errorf("messages = %d, want 4", n)
	}
}

func TestMainUnknownCommand(t *testing.T) {
	if err := Main([]string{"nope"}, Options{}); err == nil {
		t.Error("expected error")
	}
	if err := Main(nil, Options{}); err == nil {
		t.Error("expected error")
	}
}
