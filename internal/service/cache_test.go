package service

import (
	"testing"
	"time"

	"github.com/bigkaa/casedesk/internal/domain/model"
)

func TestCaseCache_GetSetDelete(t *testing.T) {
	cache := NewCaseCache(10, time.Minute)
	c := &model.Case{ID: "c-1", Colors: model.Colors{model.FieldAgent: "#fff"}}

	if _, ok := cache.Get("c-1"); ok {
		t.Fatal("ожидался cache miss для нового ключа")
	}

	cache.Set(c)
	c.Colors[model.FieldAgent] = "#000"

	got, ok := cache.Get("c-1")
	if !ok {
		t.Fatal("ожидался cache hit после Set")
	}
	if got.Colors[model.FieldAgent] != "#fff" {
		t.Error("кэш хранит ссылку на исходную карту подсветки")
	}

	cache.Delete("c-1")
	if _, ok := cache.Get("c-1"); ok {
		t.Fatal("ожидался cache miss после Delete")
	}
}

func TestCaseCache_TTLExpiration(t *testing.T) {
	cache := NewCaseCache(10, 50*time.Millisecond)
	cache.Set(&model.Case{ID: "ttl"})

	time.Sleep(100 * time.Millisecond)

	if _, ok := cache.Get("ttl"); ok {
		t.Error("ожидался cache miss после истечения TTL")
	}
}

func TestCaseCache_Eviction(t *testing.T) {
	cache := NewCaseCache(2, time.Minute)
	for _, id := range []string{"a", "b", "c"} {
		cache.Set(&model.Case{ID: id})
	}
	if _, ok := cache.Get("a"); ok {
		t.Error("самая старая запись не вытеснена")
	}
	for _, id := range []string{"b", "c"} {
		if _, ok := cache.Get(id); !ok {
			t.Errorf("запись %s вытеснена, ожидался cache hit", id)
		}
	}
}
