package judge

import (
	"context"
	"errors"
	"testing"
)

type fakeDirectory struct {
	profiles    map[string]Profile
	authorities map[string]Profile
}

func (f *fakeDirectory) GetByID(ctx context.Context, id string) (Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return Profile{}, ErrJudgeNotFound
	}
	return p, nil
}

func (f *fakeDirectory) ListActive(ctx context.Context) ([]Profile, error) {
	var out []Profile
	for _, p := range f.profiles {
		if p.Active {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeDirectory) RegionalAuthority(ctx context.Context, region string) (Profile, error) {
	p, ok := f.authorities[region]
	if !ok {
		return Profile{}, ErrNoAuthority
	}
	return p, nil
}

func TestService_SuperiorResolvesRegionalAuthority(t *testing.T) {
	svc := NewService(&fakeDirectory{
		profiles: map[string]Profile{
			"J-1": {ID: "J-1", Region: "north", Role: RoleJudge},
		},
		authorities: map[string]Profile{
			"north": {ID: "J-9", FullName: "Regional Authority Nine", Region: "north", Role: RoleRegional},
		},
	})

	superior, err := svc.Superior(context.Background(), "J-1")
	if err != nil {
		t.Fatalf("superior: unexpected error: %v", err)
	}
	if superior.ID != "J-9" {
		t.Fatalf("expected J-9, got %q", superior.ID)
	}
}

func TestService_SuperiorOfAuthorityIsNoAuthority(t *testing.T) {
	authority := Profile{ID: "J-9", Region: "north", Role: RoleRegional}
	svc := NewService(&fakeDirectory{
		profiles:    map[string]Profile{"J-9": authority},
		authorities: map[string]Profile{"north": authority},
	})

	_, err := svc.Superior(context.Background(), "J-9")
	if !errors.Is(err, ErrNoAuthority) {
		t.Fatalf("expected ErrNoAuthority, got %v", err)
	}
}

func TestService_SuperiorUnknownJudge(t *testing.T) {
	svc := NewService(&fakeDirectory{})

	_, err := svc.Superior(context.Background(), "ghost")
	if !errors.Is(err, ErrJudgeNotFound) {
		t.Fatalf("expected ErrJudgeNotFound, got %v", err)
	}
}

func TestService_SuperiorRegionWithoutAuthority(t *testing.T) {
	svc := NewService(&fakeDirectory{
		profiles: map[string]Profile{
			"J-1": {ID: "J-1", Region: "offshore", Role: RoleJudge},
		},
	})

	_, err := svc.Superior(context.Background(), "J-1")
	if !errors.Is(err, ErrNoAuthority) {
		t.Fatalf("expected ErrNoAuthority, got %v", err)
	}
}
