package opengl

import (
	"testing"
)

func TestNewUniformCache(t *testing.T) {
	cache := NewUniformCache(0)

	if cache == nil {
		t.Fatal("NewUniformCache returned nil")
	}
	if cache.locations == nil {
		t.Error("locations map should be initialized")
	}
}

func TestUniformCacheReturnsCachedLocation(t *testing.T) {
	cache := NewUniformCache(0)
	cache.locations["_TemporalFade"] = 7

	if loc := cache.GetLocation("_TemporalFade"); loc != 7 {
		t.Errorf("Expected cached location 7, got %d", loc)
	}
}

func TestUniformCacheClear(t *testing.T) {
	cache := NewUniformCache(0)
	cache.locations["test"] = 5

	cache.Clear()

	if len(cache.locations) != 0 {
		t.Error("Clear should empty the cache")
	}
}

func TestUniformCacheSkipsEmptyArrays(t *testing.T) {
	cache := NewUniformCache(0)

	// empty uploads return before touching GL
	cache.SetFloats("_SpreadAngle", nil)
	cache.SetMat4Array("_invP", nil)

	if len(cache.locations) != 0 {
		t.Error("Empty arrays should not resolve locations")
	}
}
