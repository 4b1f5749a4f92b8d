package main

import (
	"context"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/evolution-of-todo/todo-system/internal/pkg/config"
)

func TestOpenStorage_Memory(t *testing.T) {
	store, err := openStorage(context.Background(), &config.Config{Storage: config.StorageMemory}, zerolog.Nop())
	if err != nil {
		t.Fatalf("openStorage: %v", err)
	}
	if store.users == nil || store.todos == nil || store.activity == nil {
		t.Fatalf("memory storage has nil repositories: %+v", store)
	}
	if len(store.pingers) != 0 {
		t.Fatalf("memory storage should not report readiness deps, got %v", store.pingers)
	}
	store.close(context.Background())
}

func TestAllowedOrigins(t *testing.T) {
	cases := map[string][]string{
		"":                      {"http://localhost:3000"},
		"http://localhost:3000": {"http://localhost:3000"},
		"https://todo.example":  {"https://todo.example", "http://localhost:3000"},
	}
	for in, want := range cases {
		if got := allowedOrigins(in); !reflect.DeepEqual(got, want) {
			t.Fatalf("allowedOrigins(%q) = %v, want %v", in, got, want)
		}
	}
}
