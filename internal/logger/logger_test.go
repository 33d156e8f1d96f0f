package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tLat87/VisitTours/internal/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		env       string
		wantDebug bool
	}{
		{env: "production", wantDebug: false},
		{env: "local", wantDebug: true},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			l, err := New(&config.Config{Env: tt.env})
			require.NoError(t, err)

			assert.Equal(t, tt.wantDebug, l.Core().Enabled(zap.DebugLevel))
		})
	}
}
