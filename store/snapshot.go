package store

import "cayo/models"

// Snapshot is a State with lookup indexes built once, so scoping and
// aggregation never resolve ownership by scanning.
//
// Pointers returned by lookups point into the State slices. They stay valid
// until the next Add* call on the same collection.
type Snapshot struct {
	State

	accounts     map[string]int
	usernames    map[string]int
	players      map[string]int
	agentPlayers map[string][]int
	bets         map[string]int
	settings     map[string]int
}

func NewSnapshot(st *State) *Snapshot {
	if st == nil {
		st = &State{}
	}
	s := &Snapshot{
		State:        *st,
		accounts:     make(map[string]int, len(st.Accounts)),
		usernames:    make(map[string]int, len(st.Accounts)),
		players:      make(map[string]int, len(st.Players)),
		agentPlayers: make(map[string][]int),
		bets:         make(map[string]int, len(st.Bets)),
		settings:     make(map[string]int, len(st.Settings)),
	}
	for i, a := range s.Accounts {
		s.accounts[a.ID] = i
		s.usernames[a.Username] = i
	}
	for i, p := range s.Players {
		s.players[p.ID] = i
		s.agentPlayers[p.AgentID] = append(s.agentPlayers[p.AgentID], i)
	}
	for i, b := range s.Bets {
		s.bets[b.ID] = i
	}
	for i, st := range s.Settings {
		s.settings[st.Key] = i
	}
	return s
}

func (s *Snapshot) Account(id string) (*models.Account, bool) {
	i, ok := s.accounts[id]
	if !ok {
		return nil, false
	}
	return &s.Accounts[i], true
}

func (s *Snapshot) AccountByUsername(username string) (*models.Account, bool) {
	i, ok := s.usernames[username]
	if !ok {
		return nil, false
	}
	return &s.Accounts[i], true
}

// Agents lists agent accounts in store order.
func (s *Snapshot) Agents() []models.Account {
	var out []models.Account
	for _, a := range s.Accounts {
		if a.Role == models.RoleAgent {
			out = append(out, a)
		}
	}
	return out
}

// IsAgent reports whether id names an existing agent account.
func (s *Snapshot) IsAgent(id string) bool {
	a, ok := s.Account(id)
	return ok && a.Role == models.RoleAgent
}

func (s *Snapshot) Player(id string) (*models.Player, bool) {
	i, ok := s.players[id]
	if !ok {
		return nil, false
	}
	return &s.Players[i], true
}

// PlayerOwner returns the agent owning playerID.
func (s *Snapshot) PlayerOwner(playerID string) (string, bool) {
	i, ok := s.players[playerID]
	if !ok {
		return "", false
	}
	return s.Players[i].AgentID, true
}

// PlayersOf returns the players of one agent in store order.
func (s *Snapshot) PlayersOf(agentID string) []models.Player {
	idx := s.agentPlayers[agentID]
	out := make([]models.Player, 0, len(idx))
	for _, i := range idx {
		out = append(out, s.Players[i])
	}
	return out
}

func (s *Snapshot) Bet(id string) (*models.Bet, bool) {
	i, ok := s.bets[id]
	if !ok {
		return nil, false
	}
	return &s.Bets[i], true
}

func (s *Snapshot) Setting(key string) (models.Setting, bool) {
	i, ok := s.settings[key]
	if !ok {
		return models.Setting{}, false
	}
	return s.Settings[i], true
}

func (s *Snapshot) AddAccount(a models.Account) *models.Account {
	s.Accounts = append(s.Accounts, a)
	i := len(s.Accounts) - 1
	s.accounts[a.ID] = i
	s.usernames[a.Username] = i
	return &s.Accounts[i]
}

func (s *Snapshot) AddPlayer(p models.Player) *models.Player {
	s.Players = append(s.Players, p)
	i := len(s.Players) - 1
	s.players[p.ID] = i
	s.agentPlayers[p.AgentID] = append(s.agentPlayers[p.AgentID], i)
	return &s.Players[i]
}

func (s *Snapshot) AddTransaction(t models.Transaction) {
	s.Transactions = append(s.Transactions, t)
}

func (s *Snapshot) AddBet(b models.Bet) *models.Bet {
	s.Bets = append(s.Bets, b)
	i := len(s.Bets) - 1
	s.bets[b.ID] = i
	return &s.Bets[i]
}

func (s *Snapshot) PutSetting(st models.Setting) {
	if i, ok := s.settings[st.Key]; ok {
		s.Settings[i] = st
		return
	}
	s.Settings = append(s.Settings, st)
	s.settings[st.Key] = len(s.Settings) - 1
}
