package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/KirkDiggler/teamtrivia/internal/models"
	"github.com/KirkDiggler/teamtrivia/internal/services/messaging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	storeMemory = "memory"
	storeRedis  = "redis"
)

type Config struct {
	bind      string
	port      int
	prefix    string
	publicURL string

	store          string
	redisAddr      string
	redisPassword  string
	redisDB        int
	redisNamespace string

	teams         []string
	diceSides     int
	minPlayers    int
	rollTimeout   time.Duration
	answerTimeout time.Duration
	gameDuration  time.Duration
	pinnedTeam    string
	lateJoin      bool

	rateLimit float64
	rateBurst int
	tone      string

	verbose bool
}

func (c *Config) validate() error {
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.store != storeMemory && c.store != storeRedis {
		return fmt.Errorf("invalid store %q (must be %s or %s)", c.store, storeMemory, storeRedis)
	}
	if c.store == storeRedis && c.redisAddr == "" {
		return errors.New("--redis-addr is required with the redis store")
	}
	if c.rateLimit <= 0 || c.rateBurst <= 0 {
		return errors.New("--rate-limit and --rate-burst must be positive")
	}
	switch messaging.MessageTone(c.tone) {
	case messaging.ToneFunny, messaging.ToneNeutral, messaging.ToneEncouraging, messaging.ToneCelebration:
	default:
		return fmt.Errorf("invalid tone %q (must be funny, neutral, encouraging or celebration)", c.tone)
	}

	rules := c.rules()
	return rules.Validate()
}

// rules builds the game parameters from the defaults and flags
func (c *Config) rules() models.Rules {
	rules := models.DefaultRules()

	if len(c.teams) > 0 {
		teams := make([]models.TeamID, 0, len(c.teams))
		for _, team := range c.teams {
			teams = append(teams, models.TeamID(strings.TrimSpace(team)))
		}
		rules.Teams = teams
	}

	rules.DiceSides = c.diceSides
	rules.MinPlayers = c.minPlayers
	rules.RollTimeout = c.rollTimeout
	rules.AnswerTimeout = c.answerTimeout
	rules.GameDuration = c.gameDuration
	rules.PinnedTeam = models.TeamID(c.pinnedTeam)
	rules.AllowLateJoin = c.lateJoin

	return rules
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("TRIVIA")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	defaults := models.DefaultRules()

	cmd := &cobra.Command{
		Use:           "teamtrivia",
		Short:         "Team trivia board game served over websockets.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: TRIVIA_BIND)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: TRIVIA_PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: TRIVIA_PREFIX)")
	fs.StringVar(&cfg.publicURL, "public-url", "", "base URL used in room join links (env: TRIVIA_PUBLIC_URL)")

	fs.StringVar(&cfg.store, "store", storeMemory, "shared state store, memory or redis (env: TRIVIA_STORE)")
	fs.StringVar(&cfg.redisAddr, "redis-addr", "localhost:6379", "redis address (env: TRIVIA_REDIS_ADDR)")
	fs.StringVar(&cfg.redisPassword, "redis-password", "", "redis password (env: TRIVIA_REDIS_PASSWORD)")
	fs.IntVar(&cfg.redisDB, "redis-db", 0, "redis database (env: TRIVIA_REDIS_DB)")
	fs.StringVar(&cfg.redisNamespace, "redis-namespace", "trivia", "prefix for every redis key (env: TRIVIA_REDIS_NAMESPACE)")

	fs.StringSliceVar(&cfg.teams, "teams", nil, "comma separated team ids (env: TRIVIA_TEAMS)")
	fs.IntVar(&cfg.diceSides, "dice-sides", defaults.DiceSides, "sides on the die (env: TRIVIA_DICE_SIDES)")
	fs.IntVar(&cfg.minPlayers, "min-players", defaults.MinPlayers, "participants on a team needed to start (env: TRIVIA_MIN_PLAYERS)")
	fs.DurationVar(&cfg.rollTimeout, "roll-timeout", defaults.RollTimeout, "time before the dice are rolled for the active team (env: TRIVIA_ROLL_TIMEOUT)")
	fs.DurationVar(&cfg.answerTimeout, "answer-timeout", defaults.AnswerTimeout, "time the active team has to answer, 10s-15s (env: TRIVIA_ANSWER_TIMEOUT)")
	fs.DurationVar(&cfg.gameDuration, "game-duration", defaults.GameDuration, "length of a game (env: TRIVIA_GAME_DURATION)")
	fs.StringVar(&cfg.pinnedTeam, "pinned-team", "", "team that always takes the first turn (env: TRIVIA_PINNED_TEAM)")
	fs.BoolVar(&cfg.lateJoin, "late-join", false, "let participants join a running game as spectators (env: TRIVIA_LATE_JOIN)")

	fs.Float64Var(&cfg.rateLimit, "rate-limit", 10, "messages per second one connection may send (env: TRIVIA_RATE_LIMIT)")
	fs.IntVar(&cfg.rateBurst, "rate-burst", 10, "message burst one connection may send (env: TRIVIA_RATE_BURST)")
	fs.StringVar(&cfg.tone, "tone", string(messaging.ToneFunny), "tone of join and error messages (env: TRIVIA_TONE)")

	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "log at debug level (env: TRIVIA_VERBOSE)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("teamtrivia v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
