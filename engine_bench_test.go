package tokencore

import (
	"context"
	"testing"

	"github.com/veilauth/tokencore/token"
)

func newBenchmarkEngine(b *testing.B) *Engine {
	b.Helper()

	engine, err := New().WithConfig(coreTestConfig()).Build()
	if err != nil {
		b.Fatalf("Build failed: %v", err)
	}
	b.Cleanup(engine.Close)
	return engine
}

func BenchmarkIssue(b *testing.B) {
	engine := newBenchmarkEngine(b)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.Issue(context.Background(), "user-1", nil); err != nil {
			b.Fatalf("issue failed: %v", err)
		}
	}
}

func BenchmarkValidate(b *testing.B) {
	engine := newBenchmarkEngine(b)

	pair, err := engine.Issue(context.Background(), "user-1", nil)
	if err != nil {
		b.Fatalf("issue failed: %v", err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.Validate(context.Background(), pair.AccessToken, token.TypeAccess); err != nil {
			b.Fatalf("validate failed: %v", err)
		}
	}
}

func BenchmarkValidateParallel(b *testing.B) {
	engine := newBenchmarkEngine(b)

	pair, err := engine.Issue(context.Background(), "user-1", nil)
	if err != nil {
		b.Fatalf("issue failed: %v", err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := engine.Validate(context.Background(), pair.AccessToken, token.TypeAccess); err != nil {
				b.Fatalf("validate failed: %v", err)
			}
		}
	})
}

func BenchmarkRefresh(b *testing.B) {
	engine := newBenchmarkEngine(b)

	pair, err := engine.Issue(context.Background(), "user-1", nil)
	if err != nil {
		b.Fatalf("issue failed: %v", err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		next, err := engine.Refresh(context.Background(), pair.RefreshToken)
		if err != nil {
			b.Fatalf("refresh failed: %v", err)
		}
		pair = next
	}
}
