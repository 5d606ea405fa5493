// SPDX-License-Identifier: MIT
package rowtree

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/fisherprime/rowtree/lexer"
)

func TestDeserialize(t *testing.T) {
	tests := []struct {
		name       string
		src        string
		opts       []lexer.Option
		wantLevels [][]string
		wantErr    error
	}{
		{
			name:       "valid",
			src:        "n1,n2),n3))",
			wantLevels: [][]string{{"n1"}, {"n2", "n3"}},
		},
		{
			name:       "forest with whitespace",
			src:        " n1 ),\n n4, n5 ))",
			wantLevels: [][]string{{"n1", "n4"}, {"n5"}},
		},
		{
			name:       "custom markers",
			src:        "n1;n2];n3]]",
			opts:       []lexer.Option{lexer.WithSplitter(';'), lexer.WithEndMarker(']')},
			wantLevels: [][]string{{"n1"}, {"n2", "n3"}},
		},
		{
			name:    "excessive values",
			src:     "n1,n2)",
			wantErr: ErrExcessiveValues,
		},
		{
			name:    "excessive end markers",
			src:     "n1)))",
			wantErr: ErrExcessiveEndMarkers,
		},
		{
			name:    "invalid UTF-8",
			src:     "a\xffb,c))",
			wantErr: lexer.ErrInvalidEncoding,
		},
		{
			name:    "unknown token",
			src:     "n1,\x07)",
			wantErr: lexer.ErrUnknownToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := append([]lexer.Option{lexer.WithSource(strings.NewReader(tt.src))}, tt.opts...)

			got, err := Deserialize(context.Background(), opts...)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Deserialize() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr != nil {
				return
			}

			levels, err := got.AllNodesByLevel(context.Background())
			require.NoError(t, err)
			if !reflect.DeepEqual(levels.Keys(), tt.wantLevels) {
				t.Errorf("Deserialize() = %v, want %v", levels.Keys(), tt.wantLevels)
			}
		})
	}
}

func TestDeserialize_Invalid(t *testing.T) {
	_, err := Deserialize(context.Background(), lexer.WithSource(strings.NewReader("n1,\x07)")))
	assert.ErrorIs(t, err, ErrInvalidShape)
}

func TestDeserialize_Empty(t *testing.T) {
	got, err := Deserialize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{DefaultRootKey}, got.Keys())
}

func TestDeserialize_RoundTrip(t *testing.T) {
	ctx := context.Background()

	tree, err := Build(ctx, []N{{1, 0, 0}, {2, 1, 1}, {3, 2, 2}, {4, 1, 1}, {5, 0, 0}})
	require.NoError(t, err)

	shape, err := tree.Serialize(ctx)
	require.NoError(t, err)
	require.Equal(t, "n1,n2,n3)),n4)),n5)", shape)

	got, err := Deserialize(ctx, lexer.WithSource(strings.NewReader(shape)))
	require.NoError(t, err)

	item, ok := ItemAs[string](mustLookup(t, got, "n3"))
	require.True(t, ok)
	assert.Equal(t, "n3", item)

	reshaped, err := got.Serialize(ctx)
	require.NoError(t, err)
	assert.Equal(t, shape, reshaped)
}
