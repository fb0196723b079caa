package core

import (
	"errors"
	"testing"
)

func TestValidateEntity(t *testing.T) {
	tests := []struct {
		name    string
		entity  *Entity
		wantErr error
	}{
		{
			name: "valid person",
			entity: &Entity{
				Id:   1,
				Name: "Hồ Chí Minh",
				Kind: KindPerson,
			},
			wantErr: nil,
		},
		{
			name: "valid event with aliases and no embedding",
			entity: &Entity{
				Name:      "Chiến dịch Điện Biên Phủ",
				Aliases:   []string{"Điện Biên Phủ"},
				Kind:      KindEvent,
				Embedding: nil,
			},
			wantErr: nil,
		},
		{
			name:    "nil entity",
			entity:  nil,
			wantErr: ErrInvalidEntity,
		},
		{
			name: "empty name",
			entity: &Entity{
				Name: "",
				Kind: KindPerson,
			},
			wantErr: ErrEmptyName,
		},
		{
			name: "blank name",
			entity: &Entity{
				Name: "   ",
				Kind: KindPerson,
			},
			wantErr: ErrEmptyName,
		},
		{
			name: "blank alias",
			entity: &Entity{
				Name:    "Quang Trung",
				Aliases: []string{"Nguyễn Huệ", " "},
				Kind:    KindPerson,
			},
			wantErr: ErrEmptyAlias,
		},
		{
			name: "invalid kind",
			entity: &Entity{
				Name: "Quang Trung",
				Kind: Kind(99),
			},
			wantErr: ErrInvalidKind,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEntity(tt.entity)

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateEntity() error = %v, want nil", err)
				}
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateEntity() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateKind(t *testing.T) {
	for _, kind := range []Kind{KindPerson, KindEvent} {
		if err := ValidateKind(kind); err != nil {
			t.Errorf("ValidateKind(%v) error = %v, want nil", kind, err)
		}
	}
	for _, kind := range []Kind{0, -1, 3} {
		if err := ValidateKind(kind); !errors.Is(err, ErrInvalidKind) {
			t.Errorf("ValidateKind(%d) error = %v, want %v", kind, err, ErrInvalidKind)
		}
	}
}
