//go:build unit

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSagaRunsAllStepsInOrder(t *testing.T) {
	var order []string
	s := &saga{steps: []sagaStep{
		{name: "one", run: func(context.Context) error { order = append(order, "one"); return nil }},
		{name: "two", run: func(context.Context) error { order = append(order, "two"); return nil }},
		{name: "three", run: func(context.Context) error { order = append(order, "three"); return nil }},
	}}

	require.NoError(t, s.run(context.Background()))
	require.Equal(t, []string{"one", "two", "three"}, order)
}

func TestSagaCompensatesCompletedStepsInReverse(t *testing.T) {
	var compensated []string
	boom := errors.New("boom")

	s := &saga{steps: []sagaStep{
		{
			name: "one",
			run:  func(context.Context) error { return nil },
			compensate: func(context.Context) error {
				compensated = append(compensated, "one")
				return nil
			},
		},
		{
			name: "two",
			run:  func(context.Context) error { return nil },
			compensate: func(context.Context) error {
				compensated = append(compensated, "two")
				return nil
			},
		},
		{
			name: "three",
			run:  func(context.Context) error { return boom },
			compensate: func(context.Context) error {
				t.Fatal("failed step must not be compensated")
				return nil
			},
		},
	}}

	err := s.run(context.Background())
	require.ErrorIs(t, err, boom)
	require.Equal(t, []string{"two", "one"}, compensated)
}

func TestSagaCompensationFailuresAreIndependent(t *testing.T) {
	var compensated []string
	boom := errors.New("boom")

	s := &saga{steps: []sagaStep{
		{
			name: "one",
			run:  func(context.Context) error { return nil },
			compensate: func(context.Context) error {
				compensated = append(compensated, "one")
				return nil
			},
		},
		{
			name: "two",
			run:  func(context.Context) error { return nil },
			compensate: func(context.Context) error {
				return errors.New("compensation failed")
			},
		},
		{
			name: "three",
			run:  func(context.Context) error { return boom },
		},
	}}

	// Step two's compensation failing must not stop step one's, and the
	// original error is preserved.
	err := s.run(context.Background())
	require.ErrorIs(t, err, boom)
	require.Equal(t, []string{"one"}, compensated)
}

func TestSagaNilCompensationSkipped(t *testing.T) {
	boom := errors.New("boom")
	s := &saga{steps: []sagaStep{
		{name: "one", run: func(context.Context) error { return nil }},
		{name: "two", run: func(context.Context) error { return boom }},
	}}

	require.ErrorIs(t, s.run(context.Background()), boom)
}
