package memory

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/packsync/packsync/domain/artifact"
)

func TestIsAvailableMissingPackIsFalseNotError(t *testing.T) {
	p := New()
	if p.IsAvailable(context.Background(), "Missing", "1.0.0") {
		t.Error("expected false for nonexistent pack")
	}
}

func TestDownload(t *testing.T) {
	p := New()
	p.Put("HelloWorld", "1.0.0", []byte("zipbytes"))

	data, err := p.Download(context.Background(), "HelloWorld", "1.0.0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(data, []byte("zipbytes")) {
		t.Errorf("unexpected content: %q", data)
	}
}

func TestDownloadNotFound(t *testing.T) {
	p := New()
	if _, err := p.Download(context.Background(), "HelloWorld", "9.9.9"); !errors.Is(err, artifact.ErrPackNotFound) {
		t.Errorf("expected ErrPackNotFound, got %v", err)
	}
}

func TestLatestVersion(t *testing.T) {
	p := New()
	p.Put("HelloWorld", "1.0.0", []byte("a"))
	p.Put("HelloWorld", "1.1.0", []byte("b"))
	p.Put("Other", "9.0.0", []byte("c"))

	latest, err := p.LatestVersion(context.Background(), "HelloWorld")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if latest != "1.1.0" {
		t.Errorf("expected 1.1.0, got %s", latest)
	}
}

func TestLatestVersionNoVersions(t *testing.T) {
	p := New()
	if _, err := p.LatestVersion(context.Background(), "Empty"); !errors.Is(err, artifact.ErrNoVersions) {
		t.Errorf("expected ErrNoVersions, got %v", err)
	}
}

func TestTestConnection(t *testing.T) {
	p := New()
	if err := p.TestConnection(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p.ConnectionErr = &artifact.ConnectionError{Reason: artifact.ReasonUnreachable}
	var connErr *artifact.ConnectionError
	if err := p.TestConnection(context.Background()); !errors.As(err, &connErr) {
		t.Errorf("expected ConnectionError, got %v", err)
	}
}
