package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	user := &Session{UserID: "u1", Email: "u1@example.com"}

	tests := []struct {
		name     string
		session  *Session
		path     string
		action   Action
		location string
	}{
		{"anonymous protected page", nil, "/tasks", Redirect, "/?redirect=%2Ftasks"},
		{"anonymous nested page", nil, "/projects/42/edit", Redirect, "/?redirect=%2Fprojects%2F42%2Fedit"},
		{"anonymous home", nil, "/", Allow, ""},
		{"anonymous login", nil, "/login", Allow, ""},
		{"anonymous signup", nil, "/signup", Allow, ""},
		{"anonymous auth callback", nil, "/auth/callback", Allow, ""},
		{"anonymous bare auth", nil, "/auth", Redirect, "/?redirect=%2Fauth"},
		{"anonymous api", nil, "/api/tasks", Allow, ""},
		{"anonymous next asset", nil, "/_next/static/chunk.js", Allow, ""},
		{"anonymous favicon", nil, "/favicon.ico", Allow, ""},
		{"user home", user, "/", Redirect, "/dashboard"},
		{"user dashboard", user, "/dashboard", Allow, ""},
		{"user login", user, "/login", Allow, ""},
		{"user api", user, "/api/v1/tasks", Allow, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := Evaluate(tt.session, tt.path)

			assert.Equal(t, tt.action, decision.Action)
			if tt.action == Redirect {
				assert.Equal(t, tt.location, decision.Location())
			}
		})
	}
}

func TestEvaluate_RedirectKeepsOriginalPath(t *testing.T) {
	decision := Evaluate(nil, "/calendar")

	assert.Equal(t, HomePath, decision.Path)
	assert.Equal(t, "/calendar", decision.Query.Get(RedirectParam))
}

func TestEvaluate_Stateless(t *testing.T) {
	first := Evaluate(nil, "/settings")
	second := Evaluate(nil, "/settings")

	assert.Equal(t, first, second)
	assert.Equal(t, Allow, Evaluate(&Session{UserID: "u1"}, "/settings").Action)
}
