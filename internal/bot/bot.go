// Package bot wires the Telegram transport: bot construction, middleware,
// command registration and the shared callback and text dispatchers.
package bot

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"gamebot/internal/config"
	"gamebot/internal/handler"
	"gamebot/internal/repository"
	"gamebot/internal/service"
	"gamebot/internal/shop"
)

// Bot wraps the telebot instance with application dependencies.
type Bot struct {
	bot *tele.Bot
	cfg *config.Config

	accountHandler   *handler.AccountHandler
	gamesHandler     *handler.GamesHandler
	economyHandler   *handler.EconomyHandler
	shopHandler      *handler.ShopHandler
	wordGuessHandler *handler.WordGuessHandler
	wordChainHandler *handler.WordChainHandler
	ticTacToeHandler *handler.TicTacToeHandler
	adminHandler     *handler.AdminHandler
}

// Dependencies holds everything the bot needs to assemble its handlers.
type Dependencies struct {
	Config   *config.Config
	Users    *repository.UserRepository
	Account  *service.AccountService
	Games    *service.GameService
	Transfer *service.TransferService
	Convert  *service.ConvertService
	Shop     *service.ShopService
	Boards   *service.LeaderboardService
	Rand     *rand.Rand
}

// New creates a new Bot instance with the given dependencies.
func New(deps *Dependencies) (*Bot, error) {
	if deps.Config.Bot.Token == "" {
		return nil, fmt.Errorf("bot token is required")
	}

	pref := tele.Settings{
		Token:  deps.Config.Bot.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	teleBot, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	b := &Bot{
		bot: teleBot,
		cfg: deps.Config,

		accountHandler:   handler.NewAccountHandler(deps.Account, deps.Boards, deps.Config.Bot.Username),
		gamesHandler:     handler.NewGamesHandler(deps.Account, deps.Games),
		economyHandler:   handler.NewEconomyHandler(deps.Account, deps.Transfer, deps.Convert),
		shopHandler:      handler.NewShopHandler(deps.Account, deps.Games, deps.Shop),
		wordGuessHandler: handler.NewWordGuessHandler(deps.Account, deps.Rand),
		wordChainHandler: handler.NewWordChainHandler(deps.Account, deps.Rand),
		ticTacToeHandler: handler.NewTicTacToeHandler(deps.Account),
		adminHandler:     handler.NewAdminHandler(deps.Account),
	}

	b.registerMiddleware(deps.Users)
	b.registerHandlers()

	return b, nil
}

func (b *Bot) registerMiddleware(users *repository.UserRepository) {
	b.bot.Use(RecoveryMiddleware())
	b.bot.Use(WhitelistMiddleware(b.cfg))
	b.bot.Use(LoggingMiddleware())
	b.bot.Use(MessageCountMiddleware(users))
}

func (b *Bot) registerHandlers() {
	// Account
	b.bot.Handle("/start", b.accountHandler.HandleStart)
	b.bot.Handle("/help", b.accountHandler.HandleHelp)
	b.bot.Handle("/profile", b.accountHandler.HandleProfile)
	b.bot.Handle("/daily", b.accountHandler.HandleDaily)
	b.bot.Handle("/leaderboard", b.accountHandler.HandleLeaderboard)

	// Solo games
	b.bot.Handle("/flip", b.gamesHandler.HandleFlip)
	b.bot.Handle("/roll", b.gamesHandler.HandleRoll)
	b.bot.Handle("/dice", b.gamesHandler.HandleRoll)
	b.bot.Handle("/bet", b.gamesHandler.HandleBet)
	b.bot.Handle("/spin", b.gamesHandler.HandleSpin)
	b.bot.Handle("/work", b.gamesHandler.HandleWork)

	// Player vs player
	b.bot.Handle("/fight", b.gamesHandler.HandleFight)
	b.bot.Handle("/rob", b.gamesHandler.HandleRob)
	b.bot.Handle("/xoxo", b.ticTacToeHandler.HandleXoxo)

	// Mining and shop
	b.bot.Handle("/mine", b.gamesHandler.HandleMine)
	b.bot.Handle("/sell", b.shopHandler.HandleSell)
	b.bot.Handle("/shop", b.shopHandler.HandleShop)
	b.bot.Handle("/buy", b.shopHandler.HandleShop)
	b.bot.Handle("/equip", b.shopHandler.HandleEquip)

	// Economy
	b.bot.Handle("/pay", b.economyHandler.HandlePay)
	b.bot.Handle("/convert", b.economyHandler.HandleConvert)

	// Word games
	b.bot.Handle("/guess", b.wordGuessHandler.HandleGuess)
	b.bot.Handle("/answer", b.wordGuessHandler.HandleAnswer)
	b.bot.Handle("/stop", b.wordGuessHandler.HandleStop)
	b.bot.Handle("/new", b.wordChainHandler.HandleNew)
	b.bot.Handle("/end", b.wordChainHandler.HandleEnd)

	// Admin commands
	adminGroup := b.bot.Group()
	adminGroup.Use(AdminMiddleware(b.cfg))
	adminGroup.Handle("/grant", b.adminHandler.HandleGrant)

	b.bot.Handle(tele.OnCallback, b.handleCallback)
	b.bot.Handle(tele.OnText, b.handleText)
}

// handleCallback routes button presses by data prefix.
func (b *Bot) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		return nil
	}
	data := strings.TrimPrefix(callback.Data, "\f")
	log.Debug().Str("data", data).Msg("Callback received")

	switch {
	case strings.HasPrefix(data, "home_"):
		return b.accountHandler.HandleHomeCallback(c)
	case strings.HasPrefix(data, "flip:"):
		return b.gamesHandler.HandleFlipCallback(c)
	case strings.HasPrefix(data, "spin:"):
		return b.gamesHandler.HandleSpinCallback(c)
	case strings.HasPrefix(data, "shop_"),
		strings.HasPrefix(data, shop.CallbackSell),
		strings.HasPrefix(data, shop.CallbackEquip):
		return b.shopHandler.HandleShopCallback(c)
	case strings.HasPrefix(data, "conv_"),
		strings.HasPrefix(data, "cpair|"),
		strings.HasPrefix(data, "cmax|"),
		strings.HasPrefix(data, "camt|"):
		return b.economyHandler.HandleConvertCallback(c)
	case strings.HasPrefix(data, "guess_"):
		return b.wordGuessHandler.HandleGuessCallback(c)
	case strings.HasPrefix(data, "wc_"):
		return b.wordChainHandler.HandleChainCallback(c)
	case strings.HasPrefix(data, "xoxo_"):
		return b.ticTacToeHandler.HandleXoxoCallback(c)
	}
	return c.Respond(&tele.CallbackResponse{})
}

// handleText offers each plain message to the stateful flows in turn.
// The first one with matching pending state consumes it; anything else
// is just chat and only counts toward the activity board.
func (b *Bot) handleText(c tele.Context) error {
	if handled, err := b.economyHandler.MaybeHandleText(c); handled {
		return err
	}
	if handled, err := b.ticTacToeHandler.MaybeHandleText(c); handled {
		return err
	}
	if handled, err := b.wordGuessHandler.MaybeHandleText(c); handled {
		return err
	}
	if handled, err := b.wordChainHandler.MaybeHandleText(c); handled {
		return err
	}
	return nil
}

// Start starts the bot polling. It blocks until Stop is called.
func (b *Bot) Start() {
	log.Info().Msg("Starting bot...")
	b.bot.Start()
}

// Stop stops the bot gracefully.
func (b *Bot) Stop() {
	log.Info().Msg("Stopping bot...")
	b.bot.Stop()
}
