package identity

import (
	"errors"
	"net/http/httptest"
	"testing"
)

func TestHeaderProvider(t *testing.T) {
	cases := []struct {
		name     string
		provider HeaderProvider
		header   map[string]string
		want     string
		wantErr  bool
	}{
		{
			name:     "default header",
			provider: HeaderProvider{},
			header:   map[string]string{"X-User-Email": "anna@example.com"},
			want:     "anna@example.com",
		},
		{
			name:     "custom header",
			provider: HeaderProvider{Header: "X-Auth-User"},
			header:   map[string]string{"X-Auth-User": "anna@example.com"},
			want:     "anna@example.com",
		},
		{
			name:     "whitespace trimmed",
			provider: HeaderProvider{},
			header:   map[string]string{"X-User-Email": "  anna@example.com  "},
			want:     "anna@example.com",
		},
		{
			name:     "fallback for single-user setups",
			provider: HeaderProvider{Fallback: "solo@example.com"},
			want:     "solo@example.com",
		},
		{
			name:     "header wins over fallback",
			provider: HeaderProvider{Fallback: "solo@example.com"},
			header:   map[string]string{"X-User-Email": "anna@example.com"},
			want:     "anna@example.com",
		},
		{
			name:     "no identity at all",
			provider: HeaderProvider{},
			wantErr:  true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			for k, v := range tc.header {
				r.Header.Set(k, v)
			}
			got, err := tc.provider.CurrentUser(r)
			if tc.wantErr {
				if !errors.Is(err, ErrNotAuthenticated) {
					t.Fatalf("expected ErrNotAuthenticated, got %v", err)
				}
				return
			}
			if err != nil || got != tc.want {
				t.Fatalf("expected %q, got %q (err=%v)", tc.want, got, err)
			}
		})
	}
}
