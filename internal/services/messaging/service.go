package messaging

import (
	"context"
	"errors"
	"fmt"

	"github.com/KirkDiggler/teamtrivia/internal/dice"
	"github.com/KirkDiggler/teamtrivia/internal/models"
)

// service implements the Service interface
type service struct {
	// Random source for selecting messages
	roller dice.Roller
}

// NewService creates a new messaging service
func NewService(config *ServiceConfig) (Service, error) {
	if config == nil {
		return nil, errors.New("config cannot be nil")
	}

	if config.Roller == nil {
		return nil, errors.New("roller cannot be nil")
	}

	return &service{
		roller: config.Roller,
	}, nil
}

// pick selects a random message
func (s *service) pick(messages []string) string {
	return messages[s.roller.Roll(len(messages))-1]
}

// pickTone selects a message in the preferred tone, falling back to funny
// when the situation has no candidates in that tone
func (s *service) pickTone(candidates map[MessageTone][]string, tone MessageTone) (string, MessageTone) {
	if tone == "" {
		tone = ToneFunny
	}
	if len(candidates[tone]) == 0 {
		tone = ToneFunny
	}
	return s.pick(candidates[tone]), tone
}

// GetJoinMessage returns a message for when a participant joins a room
func (s *service) GetJoinMessage(ctx context.Context, input *GetJoinMessageInput) (*GetJoinMessageOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	name := input.ParticipantName
	var candidates map[MessageTone][]string
	switch {
	case input.Phase.IsActive():
		candidates = map[MessageTone][]string{
			ToneFunny: {
				fmt.Sprintf("%s slips in mid-game. Grab some popcorn, you're spectating this one.", name),
				fmt.Sprintf("Welcome %s! The board is already moving, so cheer loudly from the sidelines.", name),
			},
			ToneNeutral: {
				fmt.Sprintf("%s joined as a spectator. The game is already under way.", name),
			},
			ToneEncouraging: {
				fmt.Sprintf("Welcome %s! You're watching this one, and the next game is all yours.", name),
			},
		}
	case input.Phase.IsEnded():
		candidates = map[MessageTone][]string{
			ToneFunny: {
				fmt.Sprintf("%s arrives just in time for the credits.", name),
			},
			ToneNeutral: {
				fmt.Sprintf("%s joined after the game ended.", name),
			},
		}
	default:
		candidates = map[MessageTone][]string{
			ToneFunny: {
				fmt.Sprintf("Welcome %s! Pick a team and get ready to roll.", name),
				fmt.Sprintf("A new challenger appears! %s has entered the quiz zone.", name),
				fmt.Sprintf("%s joined. Somebody brought their encyclopedia.", name),
				fmt.Sprintf("Look who decided to join! %s, the questions await.", name),
			},
			ToneNeutral: {
				fmt.Sprintf("%s joined the room.", name),
			},
			ToneEncouraging: {
				fmt.Sprintf("Welcome %s! Pick a team, every answer counts.", name),
				fmt.Sprintf("Great to have you, %s. Your team is lucky to get you.", name),
			},
			ToneCelebration: {
				fmt.Sprintf("Everybody welcome %s! The party just got bigger.", name),
			},
		}
	}

	message, tone := s.pickTone(candidates, input.PreferredTone)
	return &GetJoinMessageOutput{
		Message: message,
		Tone:    tone,
	}, nil
}

// GetJoinErrorMessage returns a message for when a participant fails to join a room
func (s *service) GetJoinErrorMessage(ctx context.Context, input *GetJoinErrorMessageInput) (*GetJoinErrorMessageOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	var messages []string
	switch {
	case errors.Is(input.Err, models.ErrRoomNotFound):
		messages = []string{
			fmt.Sprintf("Sorry %s, no room answers to that code. Double check it?", input.ParticipantName),
			fmt.Sprintf("%s, that room code is a trick question. It doesn't exist.", input.ParticipantName),
		}
	case errors.Is(input.Err, models.ErrGameAlreadyStarted):
		messages = []string{
			fmt.Sprintf("Too late, %s! The dice are already rolling. Catch the next game!", input.ParticipantName),
			fmt.Sprintf("Whoa there, %s! This quiz has already left the station.", input.ParticipantName),
		}
	case errors.Is(input.Err, models.ErrRejoinDenied):
		messages = []string{
			fmt.Sprintf("Sorry %s, we couldn't confirm that seat is yours. Join as a new player instead.", input.ParticipantName),
		}
	default:
		messages = []string{
			fmt.Sprintf("Sorry %s, you can't join the room right now. Try again in a moment!", input.ParticipantName),
		}
	}

	return &GetJoinErrorMessageOutput{
		Title:   "Error Joining Room",
		Message: s.pick(messages),
	}, nil
}

// GetDiceRollMessage returns the announcement for a committed roll
func (s *service) GetDiceRollMessage(ctx context.Context, input *GetDiceRollMessageInput) (*GetDiceRollMessageOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	var title string
	var messages []string
	switch {
	case input.Sides > 0 && input.Dice == input.Sides:
		title = "Critical Roll!"
		messages = []string{
			fmt.Sprintf("%s rolls a %d and rockets to square %d!", input.Team, input.Dice, input.Position),
			fmt.Sprintf("Max roll! %s charges ahead to square %d.", input.Team, input.Position),
		}
	case input.Dice == 1:
		title = "Baby Steps"
		messages = []string{
			fmt.Sprintf("%s rolls a 1. One small step, landing on square %d.", input.Team, input.Position),
			fmt.Sprintf("A humble 1 for %s. Square %d it is.", input.Team, input.Position),
		}
	default:
		title = "Dice Rolled"
		messages = []string{
			fmt.Sprintf("%s rolls a %d and moves to square %d.", input.Team, input.Dice, input.Position),
			fmt.Sprintf("%s advances %d to square %d. Question incoming!", input.Team, input.Dice, input.Position),
		}
	}

	return &GetDiceRollMessageOutput{
		Title:   title,
		Message: s.pick(messages),
	}, nil
}

// GetRoundResultMessage returns the announcement for a resolved round
func (s *service) GetRoundResultMessage(ctx context.Context, input *GetRoundResultMessageInput) (*GetRoundResultMessageOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	result := input.Result
	var title string
	var tone MessageTone
	var messages []string
	switch {
	case result.Delta > 0:
		title = "Perfect Round!"
		tone = ToneCelebration
		messages = []string{
			fmt.Sprintf("All %d of %s got it right! +%d, now on square %d.", result.TeamSize, input.Team, result.Delta, result.Position),
			fmt.Sprintf("Flawless! %s moves up %d to square %d.", input.Team, result.Delta, result.Position),
		}
	case result.Delta < 0:
		title = "Ouch!"
		tone = ToneEncouraging
		messages = []string{
			fmt.Sprintf("Only %d of %d on %s knew that one. Back to square %d.", result.Correct, result.TeamSize, input.Team, result.Position),
			fmt.Sprintf("%s slides back %d. Shake it off, square %d is still a square.", input.Team, -result.Delta, result.Position),
		}
	default:
		title = "Holding Steady"
		tone = ToneNeutral
		messages = []string{
			fmt.Sprintf("%d of %d correct for %s. Staying on square %d.", result.Correct, result.TeamSize, input.Team, result.Position),
			fmt.Sprintf("Split decision on %s. No movement from square %d.", input.Team, result.Position),
		}
	}

	message := s.pick(messages)
	if result.TimedOut {
		message = "Time's up! " + message
	}

	return &GetRoundResultMessageOutput{
		Title:   title,
		Message: message,
		Tone:    tone,
	}, nil
}

// GetGameEndedMessage returns the announcement for the final standings
func (s *service) GetGameEndedMessage(ctx context.Context, input *GetGameEndedMessageInput) (*GetGameEndedMessageOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	if input.Standings == nil || len(input.Standings.Teams) == 0 {
		return &GetGameEndedMessageOutput{
			Message: "Game over! Nobody made it onto the board this time.",
		}, nil
	}

	leader := input.Standings.Teams[0]
	tied := len(input.Standings.Teams) > 1 && input.Standings.Teams[1].Position == leader.Position
	if tied {
		return &GetGameEndedMessageOutput{
			Message: s.pick([]string{
				fmt.Sprintf("Game over! A tie at the top on square %d. Rematch?", leader.Position),
				fmt.Sprintf("Photo finish! Multiple teams share first place on square %d.", leader.Position),
			}),
		}, nil
	}

	return &GetGameEndedMessageOutput{
		Message: s.pick([]string{
			fmt.Sprintf("Game over! %s wins on square %d.", leader.Team, leader.Position),
			fmt.Sprintf("%s takes the crown with %d squares. Bow down, trivia nerds.", leader.Team, leader.Position),
			fmt.Sprintf("And the winner is... %s, finishing on square %d!", leader.Team, leader.Position),
		}),
	}, nil
}

// GetErrorMessage returns a user-friendly error message
func (s *service) GetErrorMessage(ctx context.Context, input *GetErrorMessageInput) (*GetErrorMessageOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	preferred := input.PreferredTone
	var candidates map[MessageTone][]string
	switch {
	case errors.Is(input.Err, models.ErrRoomNotFound):
		candidates = map[MessageTone][]string{
			ToneFunny:   {"That room doesn't exist. Maybe it was a dream?"},
			ToneNeutral: {"That room does not exist."},
		}
	case errors.Is(input.Err, models.ErrGameAlreadyStarted):
		candidates = map[MessageTone][]string{
			ToneFunny:   {"The game already started. Grab a seat and watch!"},
			ToneNeutral: {"The game has already started."},
		}
	case errors.Is(input.Err, models.ErrNotEnoughPlayers):
		candidates = map[MessageTone][]string{
			ToneFunny: {
				"You need at least two players on teams before starting.",
				"Trivia is a team sport. Get more people on teams first!",
			},
			ToneNeutral:     {"At least two players must be on teams before starting."},
			ToneEncouraging: {"Almost there! Get one more player onto a team and you're ready."},
		}
	case errors.Is(input.Err, models.ErrRotationEmpty):
		candidates = map[MessageTone][]string{
			ToneFunny:   {"No team has any members yet. Pick a team first!"},
			ToneNeutral: {"No team has any members."},
		}
	case errors.Is(input.Err, models.ErrNotArbiter):
		candidates = map[MessageTone][]string{
			ToneFunny:   {"Only the room host can do that."},
			ToneNeutral: {"Only the room host can do that."},
		}
	case errors.Is(input.Err, models.ErrRejoinDenied):
		candidates = map[MessageTone][]string{
			ToneFunny:   {"Nice try! That seat belongs to someone else."},
			ToneNeutral: {"Rejoin refused. Join again as a new player."},
		}
	case errors.Is(input.Err, models.ErrUnknownTeam):
		candidates = map[MessageTone][]string{
			ToneFunny:   {"That team isn't on the board."},
			ToneNeutral: {"Unknown team."},
		}
	case errors.Is(input.Err, models.ErrNotYourTurn):
		candidates = map[MessageTone][]string{
			ToneFunny:       {"Hold on, it's not your team's turn yet."},
			ToneNeutral:     {"It is not your team's turn."},
			ToneEncouraging: {"Hang tight, your team is up soon!"},
		}
	case errors.Is(input.Err, models.ErrStoreUnavailable):
		candidates = map[MessageTone][]string{
			ToneNeutral: {"We lost touch with the game board. Try again in a moment."},
		}
		preferred = ToneNeutral
	default:
		candidates = map[MessageTone][]string{
			ToneFunny: {
				"Something went wrong. The quizmaster is looking into it.",
				"Hmm, that didn't work. Try again?",
			},
			ToneNeutral: {"Something went wrong. Please try again."},
		}
	}

	message, tone := s.pickTone(candidates, preferred)
	return &GetErrorMessageOutput{
		Message: message,
		Tone:    tone,
	}, nil
}
