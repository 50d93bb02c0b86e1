package request

// CreateGuestRequest is the request body for creating a guest player
type CreateGuestRequest struct {
	DisplayName string `json:"display_name"`
}

// RegisterRequest is the request body for registering a player
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// BotSeat asks for a computer player to be created and seated
type BotSeat struct {
	Strategy    string `json:"strategy"`
	DisplayName string `json:"display_name,omitempty"`
}

// CreateGameRequest is the request body for starting a game. The caller is
// always seated first; Players are further existing player IDs and Bots are
// created fresh, both seated in the order given.
type CreateGameRequest struct {
	Players []string  `json:"players,omitempty"`
	Bots    []BotSeat `json:"bots,omitempty"`
}

// SelectRequest is the request body for committing a score cell
type SelectRequest struct {
	Row string `json:"row"`
}
