package llm

import (
	"errors"
	"testing"
)

func TestDecodeJSONResponsePlain(t *testing.T) {
	var out struct {
		Status string `json:"status"`
	}
	if err := decodeJSONResponse(`{"status": "ok"}`, &out); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if out.Status != "ok" {
		t.Errorf("got %q", out.Status)
	}
}

func TestDecodeJSONResponseFenced(t *testing.T) {
	var out struct {
		Status string `json:"status"`
	}
	text := "Here is the result:\n```json\n{\"status\": \"ok\"}\n```\nHope that helps!"
	if err := decodeJSONResponse(text, &out); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if out.Status != "ok" {
		t.Errorf("got %q", out.Status)
	}
}

func TestDecodeJSONResponseNoObject(t *testing.T) {
	var out struct{}
	err := decodeJSONResponse("sorry, I cannot answer that", &out)
	if !errors.Is(err, ErrBadOutput) {
		t.Fatalf("expected ErrBadOutput, got %v", err)
	}
}

func TestDecodeJSONResponseBrokenObject(t *testing.T) {
	var out struct{}
	err := decodeJSONResponse(`{"status": `+"}", &out)
	if !errors.Is(err, ErrBadOutput) {
		t.Fatalf("expected ErrBadOutput, got %v", err)
	}
}
