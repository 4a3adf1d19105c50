package assistant

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestChatForwardsConversation(t *testing.T) {
	var gotAuth string
	var gotBody struct {
		Model    string    `json:"model"`
		Messages []Message `json:"messages"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request failed: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "Stok kaos tinggal 6."}},
			},
		})
	}))
	defer server.Close()

	client := NewClient("sk-test", server.URL, "gpt-4o-mini")
	reply, err := client.Chat([]Message{
		{Role: "system", Content: "You answer inventory questions."},
		{Role: "user", Content: "Berapa stok kaos?"},
	})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}

	if reply != "Stok kaos tinggal 6." {
		t.Fatalf("reply = %q", reply)
	}
	if gotAuth != "Bearer sk-test" {
		t.Fatalf("auth header = %q", gotAuth)
	}
	if gotBody.Model != "gpt-4o-mini" || len(gotBody.Messages) != 2 {
		t.Fatalf("forwarded model/messages = %s/%d", gotBody.Model, len(gotBody.Messages))
	}
}

func TestChatSurfacesProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"Rate limit reached"}}`))
	}))
	defer server.Close()

	client := NewClient("sk-test", server.URL, "gpt-4o-mini")
	_, err := client.Chat([]Message{{Role: "user", Content: "halo"}})
	if err == nil || !strings.Contains(err.Error(), "Rate limit reached") {
		t.Fatalf("err = %v, want provider payload surfaced", err)
	}
}

func TestChatRejectsEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	client := NewClient("sk-test", server.URL, "gpt-4o-mini")
	if _, err := client.Chat([]Message{{Role: "user", Content: "halo"}}); err == nil {
		t.Fatal("expected error for empty choices")
	}
}

func TestNewClientFromEnvDefaultsModel(t *testing.T) {
	t.Setenv("AI_API_KEY", "sk-test")
	t.Setenv("AI_API_URL", "https://api.example.com/v1/chat/completions")
	t.Setenv("AI_MODEL", "")

	client, err := NewClientFromEnv()
	if err != nil {
		t.Fatalf("NewClientFromEnv failed: %v", err)
	}
	if client.Model != "gpt-4o-mini" {
		t.Fatalf("model = %s, want the default", client.Model)
	}
}

func TestNewClientFromEnvRequiresConfig(t *testing.T) {
	t.Setenv("AI_API_KEY", "")
	t.Setenv("AI_API_URL", "")
	if _, err := NewClientFromEnv(); !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("err = %v, want ErrMissingCredentials", err)
	}
}
