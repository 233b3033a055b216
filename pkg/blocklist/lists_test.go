package blocklist

import (
	"errors"
	"slices"
	"testing"

	"github.com/spf13/afero"
)

func TestLoadList(t *testing.T) {
	fs := afero.NewMemMapFs()
	content := "https://a.example/list.txt\n\n   \n\thttps://b.example/hosts\r\nlocal.example.com \n"
	if err := afero.WriteFile(fs, "sources", []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := LoadList(fs, "sources", nil)
	if err != nil {
		t.Fatalf("LoadList returned error: %v", err)
	}
	want := []string{
		"https://a.example/list.txt",
		"\thttps://b.example/hosts",
		"local.example.com ",
	}
	if !slices.Equal(got, want) {
		t.Errorf("LoadList = %q, want %q", got, want)
	}
}

func TestLoadListMissing(t *testing.T) {
	_, err := LoadList(afero.NewMemMapFs(), "local-block-list", nil)

	var listErr *InputListError
	if !errors.As(err, &listErr) {
		t.Fatalf("expected InputListError, got %v", err)
	}
	if listErr.Path != "local-block-list" {
		t.Errorf("Path = %q, want local-block-list", listErr.Path)
	}
}

func TestBuildSources(t *testing.T) {
	sources := BuildSources([]string{" https://a.example/list.txt ", "", "https://b.example/hosts"})
	want := []Source{
		{ID: "source_1", Location: "https://a.example/list.txt"},
		{ID: "source_2", Location: "https://b.example/hosts"},
	}
	if !slices.Equal(sources, want) {
		t.Errorf("BuildSources = %+v, want %+v", sources, want)
	}
}
