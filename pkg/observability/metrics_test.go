package observability_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/concerto/pkg/domain"
	"github.com/aretw0/concerto/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	hooks := m.Hooks()
	ctx := context.Background()
	hooks.OnValidationEnd(ctx, &domain.ValidationEvent{Duration: time.Millisecond})
	hooks.OnValidationEnd(ctx, &domain.ValidationEvent{Err: domain.NewUnknownClass(domain.Root, "ns.X")})
	hooks.OnValidationEnd(ctx, &domain.ValidationEvent{Err: domain.NewUnknownClass(domain.Root, "ns.Y")})

	count, err := testutil.GatherAndCount(reg, "concerto_validations_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "one series per result")

	_, err = observability.NewMetrics(reg)
	assert.Error(t, err, "collectors register once per registry")
}

func TestChain(t *testing.T) {
	var calls []string
	a := domain.LifecycleHooks{OnValidationEnd: func(context.Context, *domain.ValidationEvent) { calls = append(calls, "a") }}
	b := domain.LifecycleHooks{
		OnValidationStart: func(context.Context, *domain.ValidationEvent) { calls = append(calls, "b-start") },
		OnValidationEnd:   func(context.Context, *domain.ValidationEvent) { calls = append(calls, "b") },
	}

	h := observability.Chain(a, b)
	h.OnValidationStart(context.Background(), &domain.ValidationEvent{})
	h.OnValidationEnd(context.Background(), &domain.ValidationEvent{})

	assert.Equal(t, []string{"b-start", "a", "b"}, calls)
}

func TestResult(t *testing.T) {
	assert.Equal(t, "valid", observability.Result(&domain.ValidationEvent{}))
	assert.Equal(t, "unknown_class", observability.Result(&domain.ValidationEvent{Err: domain.NewUnknownClass(domain.Root, "x")}))
}
