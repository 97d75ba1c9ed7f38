package app

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

// VoiceService signs Vivox access tokens so seated players can talk at their
// table. Tokens are short-lived and scoped to either the login action or a
// single table channel.
type VoiceService struct {
	secret string
	issuer string
	domain string
}

const (
	VoiceActionLogin = "login"
	VoiceActionJoin  = "join"

	voiceTokenTTL = time.Hour
)

// NewVoiceService constructs a VoiceService for the given Vivox credentials.
func NewVoiceService(secret, issuer, domain string) *VoiceService {
	return &VoiceService{
		secret: secret,
		issuer: issuer,
		domain: domain,
	}
}

// TableChannel derives the voice channel name for a game table.
func TableChannel(gameID string) string {
	return "table-" + gameID
}

// GenerateToken signs a token for the user performing the given action.
// Join tokens additionally require the table channel name.
func (s *VoiceService) GenerateToken(user, action, channel string) (string, error) {
	if s == nil {
		return "", fmt.Errorf("voice service is nil")
	}
	if user == "" {
		return "", fmt.Errorf("user is required")
	}
	if s.secret == "" || s.issuer == "" || s.domain == "" {
		return "", fmt.Errorf("voice config is incomplete")
	}

	userURI := s.userURI(user)
	targetURI, err := s.targetURI(action, channel, userURI)
	if err != nil {
		return "", err
	}

	claims := jwt.MapClaims{
		"iss": s.issuer,
		"sub": user,
		"exp": time.Now().Add(voiceTokenTTL).Unix(),
		"vxa": action,
		"vxi": fmt.Sprintf("%d-%d", time.Now().UnixNano(), rand.Int63()),
		"f":   userURI,
		"t":   targetURI,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

func (s *VoiceService) userURI(user string) string {
	return "sip:." + s.issuer + "." + user + ".@" + s.domain
}

func (s *VoiceService) channelURI(channel string) string {
	return "sip:confctl-g-" + channel + "@" + s.domain
}

func (s *VoiceService) targetURI(action, channel, userURI string) (string, error) {
	switch action {
	case VoiceActionLogin:
		return userURI, nil
	case VoiceActionJoin:
		if channel == "" {
			return "", fmt.Errorf("channel is required for join tokens")
		}
		return s.channelURI(channel), nil
	default:
		return "", fmt.Errorf("unsupported voice action: %s", action)
	}
}
