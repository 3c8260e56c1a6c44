package clarizen

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func identityServer(t *testing.T, sessionInfo string) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/API/authentication/getSessionInfo" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(sessionInfo))
	}))
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL}, nil)
}

func TestResolveIdentity(t *testing.T) {
	tests := []struct {
		name        string
		sessionInfo string
		hint        string
		wantName    string
		wantUserID  string
	}{
		{
			name:        "full name preferred",
			sessionInfo: `{"id":"/User/u1","fullName":"Scott Brown","username":"sbrown"}`,
			wantName:    "Scott Brown",
			wantUserID:  "/User/u1",
		},
		{
			name:        "username-only profile falls back verbatim",
			sessionInfo: `{"userId":"u2","username":"sbrown"}`,
			wantName:    "sbrown",
			wantUserID:  "u2",
		},
		{
			name:        "explicit hint beats the profile",
			sessionInfo: `{"id":"u3","fullName":"Scott Brown"}`,
			hint:        "S. Brown (Contractor)",
			wantName:    "S. Brown (Contractor)",
			wantUserID:  "u3",
		},
		{
			name:        "nothing usable leaves name empty",
			sessionInfo: `{"id":"u4"}`,
			wantName:    "",
			wantUserID:  "u4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := identityServer(t, tt.sessionInfo)
			id, err := ResolveIdentity(context.Background(), c, Session{Token: "tok"}, tt.hint)
			if err != nil {
				t.Fatalf("ResolveIdentity() error = %v", err)
			}
			if id.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", id.Name, tt.wantName)
			}
			if id.UserID != tt.wantUserID {
				t.Errorf("UserID = %q, want %q", id.UserID, tt.wantUserID)
			}
		})
	}
}

func TestRecoverName(t *testing.T) {
	entities := []RawEntity{
		{"Resource": map[string]any{"id": "/User/other", "Name": "Somebody Else"}},
		{"Resource": map[string]any{"id": "/User/u1", "Name": "Scott Brown"}},
	}

	got := RecoverName("/User/u1", entities, []string{"Resource", "id"}, []string{"Resource", "Name"})
	if got != "Scott Brown" {
		t.Errorf("RecoverName = %q, want Scott Brown", got)
	}

	if got := RecoverName("/User/nobody", entities, []string{"Resource", "id"}, []string{"Resource", "Name"}); got != "" {
		t.Errorf("RecoverName(no match) = %q, want empty", got)
	}
	if got := RecoverName("", entities, []string{"Resource", "id"}, []string{"Resource", "Name"}); got != "" {
		t.Errorf("RecoverName(empty id) = %q, want empty", got)
	}
}
