package nakama

import (
	"context"
	"database/sql"
	"encoding/json"

	"callbreak/internal/app"
	"callbreak/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

// voiceTokenRequest is the client payload for RpcVoiceToken.
// Action is "login" or "join"; GameID is required for join tokens.
type voiceTokenRequest struct {
	Action string `json:"action"`
	GameID string `json:"game_id"`
}

type voiceTokenResponse struct {
	Token string `json:"token"`
}

func rpcVoiceToken(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userID == "" {
		return "", runtime.NewError("No user id in context", 16) // UNAUTHENTICATED
	}

	var req voiceTokenRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", runtime.NewError("Invalid payload", 3) // INVALID_ARGUMENT
	}

	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	secret := env["vivox_secret"]
	issuer := env["vivox_issuer"]
	domain := env["vivox_domain"]
	if issuer == "" || domain == "" {
		issuer, domain = config.VoiceDefaults()
	}

	channel := ""
	if req.Action == app.VoiceActionJoin {
		if req.GameID == "" {
			return "", runtime.NewError("game_id required for join tokens", 3)
		}
		channel = app.TableChannel(req.GameID)
	}

	svc := app.NewVoiceService(secret, issuer, domain)
	token, err := svc.GenerateToken(userID, req.Action, channel)
	if err != nil {
		logger.Error("Failed to generate voice token for %s: %v", userID, err)
		return "", runtime.NewError("Internal error", 13) // INTERNAL
	}

	b, _ := json.Marshal(voiceTokenResponse{Token: token})
	return string(b), nil
}
