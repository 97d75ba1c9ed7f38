package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"math/rand"
	"strconv"

	"callbreak/internal/app"
	"callbreak/internal/bot"
	"callbreak/internal/config"
	"callbreak/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
)

const (
	// MatchLabelGame tags every table label so quick-match queries only see
	// Call Break matches.
	MatchLabelGame = "callbreak"

	// endedGraceTicks is how long a finished table lingers so the final
	// events reach clients before the match terminates.
	endedGraceTicks = 5
)

// matchLabel is the JSON label advertised for quick-match queries.
type matchLabel struct {
	Open  int    `json:"open"`
	Game  string `json:"game"`
	Phase string `json:"phase"`
}

// MatchState holds the authoritative runtime state for one table.
type MatchState struct {
	Tick      int64
	Presences map[string]runtime.Presence // userID -> presence for targeted messaging
	App       *app.Service
	Game      *domain.Game
	Bots      map[string]*bot.Agent // seats currently driven by an agent

	BotsEnabled      bool
	BotMinDelay      int
	BotMaxDelay      int
	BotAutoFillDelay int
	BotWaitUntil     int64 // tick when the acting bot moves
	ShortHandedSince int64 // tick when a short-handed lobby started waiting
	EndedAtTick      int64 // tick when game_ended was broadcast

	TurnTimeoutTicks int64  // how long a seat may stall before the table acts
	TurnUserID       string // current turn holder, for the stall timer
	TurnStartedTick  int64
}

// OpenSeats reports how many seats remain unclaimed.
func (ms *MatchState) OpenSeats() int {
	return domain.NumSeats - len(ms.Game.Players())
}

// HumanCount reports how many seated players are not bots.
func (ms *MatchState) HumanCount() int {
	count := 0
	for _, p := range ms.Game.Players() {
		if !isBotUserID(p.ID) {
			count++
		}
	}
	return count
}

func isBotUserID(userID string) bool {
	return bot.IsBot(userID)
}

// makeCallMessage is the OpMakeCall client payload.
type makeCallMessage struct {
	Call int `json:"call"`
}

// playCardMessage is the OpPlayCard client payload.
type playCardMessage struct {
	Card domain.Card `json:"card"`
}

// gameErrorMessage is sent privately on a rejected action.
type gameErrorMessage struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewMatch is the factory function registered with Nakama.
func NewMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	return &matchHandler{}, nil
}

type matchHandler struct{}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	if err := bot.LoadIdentities("data/bot_identities.json"); err != nil {
		logger.Warn("MatchInit: Could not load bot identities: %v", err)
	}
	if err := config.LoadGameConfig("data/game_config.json"); err != nil {
		logger.Warn("MatchInit: Could not load game config: %v", err)
	}

	svc := app.NewService(nil)
	state := &MatchState{
		Presences: make(map[string]runtime.Presence),
		App:       svc,
		Game:      svc.NewGame(),
		Bots:      make(map[string]*bot.Agent),

		BotAutoFillDelay: int(config.BotAutoFillDelay().Seconds()),
		TurnTimeoutTicks: int64(config.TurnDuration().Seconds()),
	}

	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	if val, ok := env["callbreak_bots_enabled"]; ok {
		state.BotsEnabled = val == "true"
	}
	if val, ok := env["callbreak_bot_min_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BotMinDelay = i
		}
	}
	if val, ok := env["callbreak_bot_max_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BotMaxDelay = i
		}
	}
	if val, ok := env["callbreak_bot_auto_fill_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BotAutoFillDelay = i
		}
	}
	if state.BotMinDelay == 0 {
		state.BotMinDelay = 1
	}
	if state.BotMaxDelay == 0 {
		state.BotMaxDelay = 3
	}
	if state.BotMaxDelay < state.BotMinDelay {
		state.BotMaxDelay = state.BotMinDelay
	}

	labelBytes, err := json.Marshal(matchLabel{
		Open:  domain.NumSeats,
		Game:  MatchLabelGame,
		Phase: phaseLabel(state.Game),
	})
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	tickRate := 1
	return state, tickRate, string(labelBytes)
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	// Reconnects for seated players are always allowed.
	if _, err := matchState.Game.PlayerTurn(domain.PlayerInfo{ID: presence.GetUserId()}); err == nil {
		return state, true, ""
	}

	if matchState.Game.State() != domain.GamePhaseJoin {
		return state, false, "match_in_progress"
	}
	if matchState.OpenSeats() <= 0 {
		return state, false, "match_full"
	}
	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		uid := p.GetUserId()
		matchState.Presences[uid] = p

		// Rejoin only refreshes the presence; a returning player's seat
		// reverts from any stand-in agent.
		if _, err := matchState.Game.PlayerTurn(domain.PlayerInfo{ID: uid}); err == nil {
			delete(matchState.Bots, uid)
			continue
		}

		events, err := matchState.App.Join(matchState.Game, uid)
		if err != nil {
			logger.Warn("MatchJoin: User %s could not be seated: %v", uid, err)
			continue
		}
		for _, ev := range events {
			mh.broadcastEvent(matchState, dispatcher, logger, withDisplayName(ev, p.GetUsername()))
		}
	}

	mh.updateLabel(matchState, dispatcher, logger)
	return matchState
}

// MatchLeave frees presences. A seat is never vacated mid-game; an agent
// plays on for the leaver so the remaining three are not stranded.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		uid := p.GetUserId()
		delete(matchState.Presences, uid)

		if _, err := matchState.Game.PlayerTurn(domain.PlayerInfo{ID: uid}); err == nil {
			if matchState.Game.State() == domain.GamePhasePlay && !isBotUserID(uid) {
				logger.Info("MatchLeave: Agent takes over seat of %s", uid)
				matchState.Bots[uid] = &bot.Agent{ID: uid, Strategy: &bot.EasyBot{}}
			}
		}
	}

	if len(matchState.Presences) == 0 {
		logger.Info("MatchLeave: Terminating match with no humans connected.")
		return nil
	}

	mh.updateLabel(matchState, dispatcher, logger)
	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpMakeCall:
			mh.handleMakeCall(matchState, dispatcher, logger, msg)
		case OpPlayCard:
			mh.handlePlayCard(matchState, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	if matchState.BotsEnabled {
		mh.processBots(matchState, dispatcher, logger)
	}

	mh.enforceTurnTimeout(matchState, dispatcher, logger)

	if matchState.EndedAtTick > 0 && tick-matchState.EndedAtTick >= endedGraceTicks {
		logger.Info("MatchLoop: Game finished, terminating match.")
		return nil
	}

	return matchState
}

func (mh *matchHandler) handleMakeCall(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()

	var req makeCallMessage
	if err := json.Unmarshal(msg.GetData(), &req); err != nil {
		logger.Warn("handleMakeCall: Invalid payload from %s: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, "invalid call payload")
		return
	}

	events, err := state.App.MakeCall(state.Game, senderID, req.Call)
	if err != nil {
		logger.Warn("handleMakeCall: User %s call %d rejected: %v", senderID, req.Call, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}
	for _, ev := range events {
		mh.broadcastEvent(state, dispatcher, logger, ev)
	}
}

func (mh *matchHandler) handlePlayCard(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()

	var req playCardMessage
	if err := json.Unmarshal(msg.GetData(), &req); err != nil {
		logger.Warn("handlePlayCard: Invalid payload from %s: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, "invalid card payload")
		return
	}

	events, err := state.App.PlayCard(state.Game, senderID, req.Card)
	if err != nil {
		logger.Warn("handlePlayCard: User %s card %s rejected: %v", senderID, req.Card, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}
	for _, ev := range events {
		mh.broadcastEvent(state, dispatcher, logger, ev)
	}
}

func (mh *matchHandler) processBots(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	// 1. Auto-fill a short-handed lobby with bots after the configured wait.
	if state.Game.State() == domain.GamePhaseJoin {
		if state.HumanCount() >= 1 && state.OpenSeats() > 0 {
			if state.ShortHandedSince == 0 {
				state.ShortHandedSince = state.Tick
				logger.Debug("processBots: Short-handed lobby, starting auto-fill timer.")
			}
			if state.Tick-state.ShortHandedSince >= int64(state.BotAutoFillDelay) {
				mh.fillSeatsWithBots(state, dispatcher, logger)
				state.ShortHandedSince = 0
			}
		} else {
			state.ShortHandedSince = 0
		}
		return
	}

	// 2. Act for agent-driven seats during play.
	if state.Game.State() != domain.GamePhasePlay {
		return
	}
	turn, err := state.Game.NextTurn()
	if err != nil {
		return
	}
	uid := state.Game.Players()[turn].ID
	agent, driven := state.Bots[uid]
	if !driven {
		state.BotWaitUntil = 0
		return
	}

	if state.BotWaitUntil == 0 {
		delay := rand.Intn(state.BotMaxDelay-state.BotMinDelay+1) + state.BotMinDelay
		state.BotWaitUntil = state.Tick + int64(delay)
		return
	}
	if state.Tick < state.BotWaitUntil {
		return
	}
	state.BotWaitUntil = 0

	move, err := agent.Play(state.Game)
	if err != nil {
		logger.Error("processBots: Agent %s failed to decide: %v", uid, err)
		return
	}

	var events []app.Event
	if move.IsCall {
		events, err = state.App.MakeCall(state.Game, uid, move.Call)
	} else {
		events, err = state.App.PlayCard(state.Game, uid, move.Card)
	}
	if err != nil {
		logger.Error("processBots: Agent %s move rejected: %v", uid, err)
		return
	}
	for _, ev := range events {
		mh.broadcastEvent(state, dispatcher, logger, ev)
	}
}

// enforceTurnTimeout plays the lowest legal move for a seat that has stalled
// past the configured turn duration. Bot seats are paced by processBots and
// never time out here.
func (mh *matchHandler) enforceTurnTimeout(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.TurnTimeoutTicks <= 0 || state.Game.State() != domain.GamePhasePlay {
		return
	}
	turn, err := state.Game.NextTurn()
	if err != nil {
		return
	}

	uid := state.Game.Players()[turn].ID
	if uid != state.TurnUserID {
		state.TurnUserID = uid
		state.TurnStartedTick = state.Tick
		return
	}
	if _, driven := state.Bots[uid]; driven || isBotUserID(uid) {
		return
	}
	if state.Tick-state.TurnStartedTick < state.TurnTimeoutTicks {
		return
	}

	logger.Info("enforceTurnTimeout: Acting for stalled user %s", uid)
	agent := &bot.Agent{ID: uid, Strategy: &bot.EasyBot{}}
	move, err := agent.Play(state.Game)
	if err != nil {
		logger.Error("enforceTurnTimeout: Could not decide for %s: %v", uid, err)
		return
	}

	var events []app.Event
	if move.IsCall {
		events, err = state.App.MakeCall(state.Game, uid, move.Call)
	} else {
		events, err = state.App.PlayCard(state.Game, uid, move.Card)
	}
	if err != nil {
		logger.Error("enforceTurnTimeout: Move for %s rejected: %v", uid, err)
		return
	}
	state.TurnStartedTick = state.Tick
	for _, ev := range events {
		mh.broadcastEvent(state, dispatcher, logger, ev)
	}
}

func (mh *matchHandler) fillSeatsWithBots(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	identityIdx := 0
	for state.OpenSeats() > 0 {
		identity := bot.GetBotIdentity(identityIdx)
		identityIdx++
		if _, err := state.Game.PlayerTurn(domain.PlayerInfo{ID: identity.UserID}); err == nil {
			continue // already seated
		}

		agent, err := bot.NewAgent(identity.UserID)
		if err != nil {
			// Identity pool may be unavailable; fall back to a plain agent.
			agent = &bot.Agent{ID: identity.UserID, Strategy: &bot.EasyBot{}}
		}

		events, err := state.App.Join(state.Game, identity.UserID)
		if err != nil {
			logger.Error("fillSeatsWithBots: Could not seat bot %s: %v", identity.UserID, err)
			return
		}
		state.Bots[identity.UserID] = agent
		logger.Info("fillSeatsWithBots: Seated bot %s (%s)", identity.Username, identity.UserID)
		name := bot.GetBotDisplayName(identity.UserID)
		if name == "" {
			name = identity.DisplayName // placeholder identity outside the pool
		}
		for _, ev := range events {
			mh.broadcastEvent(state, dispatcher, logger, withDisplayName(ev, name))
		}
	}
	mh.updateLabel(state, dispatcher, logger)
}

// withDisplayName annotates a player_joined event with the name the table
// shows for the seat.
func withDisplayName(ev app.Event, name string) app.Event {
	if payload, ok := ev.Payload.(app.PlayerJoinedPayload); ok && name != "" {
		payload.DisplayName = name
		ev.Payload = payload
	}
	return ev
}

// broadcastEvent converts an app event to its opcode and dispatches it.
func (mh *matchHandler) broadcastEvent(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	opCode, ok := eventOpCode(ev.Kind)
	if !ok {
		logger.Warn("Unknown event kind: %v", ev.Kind)
		return
	}

	data, err := json.Marshal(ev.Payload)
	if err != nil {
		logger.Error("Failed to marshal event %v: %v", ev.Kind, err)
		return
	}

	var recipients []runtime.Presence
	if len(ev.Recipients) > 0 {
		for _, uid := range ev.Recipients {
			if p, ok := state.Presences[uid]; ok {
				recipients = append(recipients, p)
			}
		}
		// Targeted events never fall back to a broadcast; a bot recipient
		// simply has nobody to deliver to.
		if len(recipients) == 0 {
			return
		}
	}

	if err := dispatcher.BroadcastMessage(opCode, data, recipients, nil, true); err != nil {
		logger.Error("Failed to broadcast event %v: %v", ev.Kind, err)
	}

	switch ev.Kind {
	case app.EventGameStarted, app.EventGameEnded:
		if ev.Kind == app.EventGameEnded {
			state.EndedAtTick = state.Tick
		}
		mh.updateLabel(state, dispatcher, logger)
	}
}

func eventOpCode(kind app.EventKind) (int64, bool) {
	switch kind {
	case app.EventPlayerJoined:
		return OpPlayerJoined, true
	case app.EventGameStarted:
		return OpGameStarted, true
	case app.EventHandDealt:
		return OpHandDealt, true
	case app.EventCallMade:
		return OpCallMade, true
	case app.EventCardPlayed:
		return OpCardPlayed, true
	case app.EventTrickWon:
		return OpTrickWon, true
	case app.EventRoundStarted:
		return OpRoundStarted, true
	case app.EventRoundEnded:
		return OpRoundEnded, true
	case app.EventGameEnded:
		return OpGameEnded, true
	default:
		return 0, false
	}
}

// sendError sends a gameErrorMessage to a specific user only.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, code int, message string) {
	data, err := json.Marshal(gameErrorMessage{Code: code, Message: message})
	if err != nil {
		logger.Error("Failed to marshal game error: %v", err)
		return
	}

	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("Cannot send error to %s: Presence not found", userID)
		return
	}
	if err := dispatcher.BroadcastMessage(OpGameError, data, []runtime.Presence{presence}, nil, true); err != nil {
		logger.Error("Failed to send game error: %v", err)
	}
}

func phaseLabel(game *domain.Game) string {
	switch game.State() {
	case domain.GamePhasePlay:
		return "playing"
	case domain.GamePhaseOver:
		return "ended"
	default:
		return "lobby"
	}
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	labelBytes, err := json.Marshal(matchLabel{
		Open:  state.OpenSeats(),
		Game:  MatchLabelGame,
		Phase: phaseLabel(state.Game),
	})
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(string(labelBytes)); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	logger.Debug("MatchTerminate: Match terminated for reason %d", reason)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
