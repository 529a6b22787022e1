package httpapi

import (
	"crypto/rand"
	"encoding/json"
	"math/big"
	"net/http"

	"github.com/nightroster/werewolf-backend/internal/engine"
	"github.com/nightroster/werewolf-backend/internal/hub"
	"github.com/nightroster/werewolf-backend/internal/session"
)

func GenerateCode() (string, error) {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	code := make([]byte, 6)
	for i := 0; i < 6; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		code[i] = charset[num.Int64()]
	}
	return string(code), nil
}

type createSessionRequest struct {
	GMs       []string `json:"gm_ids,omitempty"`
	RuleEdits string   `json:"rule_edits,omitempty"`
}

// Deps carries service-wide defaults into the handlers.
type Deps struct {
	BaseRules engine.Rules
	GMs       []string
}

// CreateSession mints a fresh join code and spawns a session under it.
func CreateSession(h *hub.Hub, deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createSessionRequest
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&req) // empty body is fine
		}

		rules := deps.BaseRules
		if rules.RoleNums == nil {
			rules = engine.DefaultRules()
		}
		rules.RoleNums = rules.RoleNums.Clone()
		if req.RuleEdits != "" {
			if errs := rules.ApplyEdits(req.RuleEdits); len(errs) > 0 {
				msgs := make([]string, 0, len(errs))
				for _, e := range errs {
					msgs = append(msgs, e.Error())
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				_ = json.NewEncoder(w).Encode(struct {
					Errors []string `json:"errors"`
				}{Errors: msgs})
				return
			}
		}

		var code string
		for {
			c, err := GenerateCode()
			if err != nil {
				http.Error(w, "failed to generate code", http.StatusInternalServerError)
				return
			}
			reply := make(chan *session.Session, 1)
			h.Inbox() <- hub.GetSession{Code: c, Reply: reply}
			if <-reply == nil {
				code = c
				break
			}
		}

		gms := append(append([]string(nil), deps.GMs...), req.GMs...)
		reply := make(chan *session.Session, 1)
		h.Inbox() <- hub.EnsureSession{
			Code:  code,
			Cfg:   session.Config{Rules: rules, GMs: gms},
			Reply: reply,
		}
		if <-reply == nil {
			http.Error(w, "failed to create session", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(struct {
			Code string `json:"code"`
		}{Code: code})
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
