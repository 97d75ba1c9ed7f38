package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to find or create an
	// open table.
	RpcQuickMatch = "quick_match"

	// RpcVoiceToken is the Nakama RPC id clients call to sign Vivox tokens.
	RpcVoiceToken = "voice_token"

	// MatchNameCallBreak is the authoritative match handler name registered
	// with Nakama.
	MatchNameCallBreak = "callbreak_match"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpMakeCall int64 = 1
	OpPlayCard int64 = 2

	// Server -> Client events
	OpPlayerJoined int64 = 101
	OpGameStarted  int64 = 102
	OpHandDealt    int64 = 103 // sent privately
	OpCallMade     int64 = 104
	OpCardPlayed   int64 = 105
	OpTrickWon     int64 = 106
	OpRoundStarted int64 = 107
	OpRoundEnded   int64 = 108
	OpGameEnded    int64 = 109
	OpGameError    int64 = 110
)
