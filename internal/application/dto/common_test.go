package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Valuacion-api/internal/application/dto"
)

func TestPageRequest_Normalize(t *testing.T) {
	tests := []struct {
		name       string
		in         dto.PageRequest
		wantLimit  int
		wantOffset int
	}{
		{"vacío", dto.PageRequest{}, dto.DefaultPageLimit, 0},
		{"dentro de rango", dto.PageRequest{Limit: 50, Offset: 10}, 50, 10},
		{"límite excedido", dto.PageRequest{Limit: 500}, dto.MaxPageLimit, 0},
		{"negativos", dto.PageRequest{Limit: -1, Offset: -5}, dto.DefaultPageLimit, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := tt.in
			page.Normalize()
			assert.Equal(t, tt.wantLimit, page.Limit)
			assert.Equal(t, tt.wantOffset, page.Offset)
		})
	}
}
