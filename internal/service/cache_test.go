package service

import (
	"testing"
	"time"
)

// TestImageCache_Hit проверяет, что повторное чтение не обращается к источнику.
func TestImageCache_Hit(t *testing.T) {
	src := &fakeEncoder{data: map[string]string{"/images/a.jpg": "YQ=="}}
	cache := NewImageCache(src, 10, time.Minute)

	for range 3 {
		got, err := cache.Encode("/images/a.jpg")
		if err != nil {
			t.Fatalf("ошибка Encode: %v", err)
		}
		if got != "YQ==" {
			t.Errorf("Encode = %q, ожидалось YQ==", got)
		}
	}
	if src.calls != 1 {
		t.Errorf("ожидалось 1 обращение к источнику, получено %d", src.calls)
	}
}

// TestImageCache_ErrorsNotCached проверяет, что ошибки не кэшируются.
func TestImageCache_ErrorsNotCached(t *testing.T) {
	src := &fakeEncoder{data: map[string]string{}}
	cache := NewImageCache(src, 10, time.Minute)

	if _, err := cache.Encode("/images/late.jpg"); err == nil {
		t.Fatal("ожидалась ошибка для отсутствующего файла")
	}

	src.data["/images/late.jpg"] = "bGF0ZQ=="
	got, err := cache.Encode("/images/late.jpg")
	if err != nil {
		t.Fatalf("ошибка Encode после появления файла: %v", err)
	}
	if got != "bGF0ZQ==" {
		t.Errorf("Encode = %q", got)
	}
}

// TestImageCache_Invalidate проверяет перечитывание после инвалидации.
func TestImageCache_Invalidate(t *testing.T) {
	src := &fakeEncoder{data: map[string]string{"/images/a.jpg": "djE="}}
	cache := NewImageCache(src, 10, time.Minute)

	if _, err := cache.Encode("/images/a.jpg"); err != nil {
		t.Fatalf("ошибка Encode: %v", err)
	}

	src.data["/images/a.jpg"] = "djI="
	cache.Invalidate("", "/images/a.jpg")

	got, err := cache.Encode("/images/a.jpg")
	if err != nil {
		t.Fatalf("ошибка Encode: %v", err)
	}
	if got != "djI=" {
		t.Errorf("после инвалидации ожидалось djI=, получено %q", got)
	}
}

// TestImageCache_Disabled проверяет, что размер 0 отключает кэш.
func TestImageCache_Disabled(t *testing.T) {
	src := &fakeEncoder{data: map[string]string{"/images/a.jpg": "YQ=="}}
	cache := NewImageCache(src, 0, time.Minute)

	for range 2 {
		if _, err := cache.Encode("/images/a.jpg"); err != nil {
			t.Fatalf("ошибка Encode: %v", err)
		}
	}
	cache.Invalidate("/images/a.jpg")

	if src.calls != 2 {
		t.Errorf("ожидалось 2 обращения к источнику, получено %d", src.calls)
	}
}
