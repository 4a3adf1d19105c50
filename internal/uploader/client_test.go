package uploader

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestUploadSendsPresetAndReturnsSecureURL(t *testing.T) {
	var gotPreset, gotFilename string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			t.Fatalf("parse multipart failed: %v", err)
		}
		gotPreset = r.FormValue("upload_preset")
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("missing file part: %v", err)
		}
		file.Close()
		gotFilename = header.Filename

		json.NewEncoder(w).Encode(map[string]string{
			"secure_url": "https://cdn.example.com/foto.jpg",
			"url":        "http://cdn.example.com/foto.jpg",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "unsigned-preset")
	url, err := client.Upload("foto.jpg", "image/jpeg", []byte("fake-jpeg-bytes"))
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	if url != "https://cdn.example.com/foto.jpg" {
		t.Fatalf("url = %s, want the secure_url", url)
	}
	if gotPreset != "unsigned-preset" {
		t.Fatalf("preset = %s, want unsigned-preset", gotPreset)
	}
	if gotFilename != "foto.jpg" {
		t.Fatalf("filename = %s, want foto.jpg", gotFilename)
	}
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	client := NewClient("http://unused", "preset")
	if _, err := client.Upload("doc.pdf", "application/pdf", []byte("x")); !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("err = %v, want ErrUnsupportedType", err)
	}
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	client := NewClient("http://unused", "preset")
	data := make([]byte, MaxUploadSize+1)
	if _, err := client.Upload("big.png", "image/png", data); !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("err = %v, want ErrFileTooLarge", err)
	}
}

func TestUploadSurfacesProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"Invalid upload preset"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "wrong")
	_, err := client.Upload("foto.png", "image/png", []byte("x"))
	if err == nil || !strings.Contains(err.Error(), "Invalid upload preset") {
		t.Fatalf("err = %v, want provider payload surfaced", err)
	}
}

func TestNewClientFromEnvRequiresConfig(t *testing.T) {
	t.Setenv("UPLOAD_URL", "")
	t.Setenv("UPLOAD_PRESET", "")
	if _, err := NewClientFromEnv(); !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("err = %v, want ErrMissingCredentials", err)
	}
}
