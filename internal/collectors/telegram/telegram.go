package telegram

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"raycompile/internal/collectors"
	"raycompile/internal/logger"
	"raycompile/internal/xray"

	"github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/telegram/dcs"
	"github.com/gotd/td/tg"
	"golang.org/x/net/proxy"
)

// Collector scans the message history of channels the account has joined
// and picks share links out of the text.
type Collector struct{}

type options struct {
	apiID       int
	apiHash     string
	limit       int
	sessionFile string
	chats       []int64
	proxyURL    string
}

func parseOptions(config map[string]interface{}) (options, error) {
	o := options{limit: 500, sessionFile: "telegram.session"}
	o.apiID, _ = config["api_id"].(int)
	o.apiHash, _ = config["api_hash"].(string)
	if v, ok := config["limit"].(int); ok && v > 0 {
		o.limit = v
	}
	if v, ok := config["session_file"].(string); ok && v != "" {
		o.sessionFile = v
	}
	o.proxyURL, _ = config["_proxy_url"].(string)

	// YAML decodes ids as int, CLI overrides may hand us int64
	if chats, ok := config["chats"].([]interface{}); ok {
		for _, chat := range chats {
			switch id := chat.(type) {
			case int:
				o.chats = append(o.chats, int64(id))
			case int64:
				o.chats = append(o.chats, id)
			}
		}
	}

	if o.apiID == 0 || o.apiHash == "" {
		return o, fmt.Errorf("missing api_id or api_hash")
	}
	return o, nil
}

func (c *Collector) Collect(ctx context.Context, config map[string]interface{}) ([]string, error) {
	o, err := parseOptions(config)
	if err != nil {
		return nil, err
	}

	var dialer proxy.Dialer = proxy.Direct
	if o.proxyURL != "" {
		if u, err := url.Parse(o.proxyURL); err == nil {
			if d, err := proxy.FromURL(u, proxy.Direct); err == nil {
				dialer = d
				logger.Log.Infof("Telegram using proxy: %s", o.proxyURL)
			}
		}
	}

	if dir := filepath.Dir(o.sessionFile); dir != "." && dir != "" {
		_ = os.MkdirAll(dir, 0700)
	}

	client := telegram.NewClient(o.apiID, o.apiHash, telegram.Options{
		SessionStorage: &telegram.FileSessionStorage{Path: o.sessionFile},
		Resolver: dcs.Plain(dcs.PlainOptions{
			Dial: func(ctx context.Context, network, addr string) (net.Conn, error) {
				return dialer.Dial(network, addr)
			},
		}),
	})

	var links []string
	err = client.Run(ctx, func(ctx context.Context) error {
		flow := auth.NewFlow(termAuth{}, auth.SendCodeOptions{})
		if err := client.Auth().IfNecessary(ctx, flow); err != nil {
			return fmt.Errorf("authentication failed: %w", err)
		}
		logger.Log.Info("Telegram login successful")

		api := client.API()
		peers, err := resolvePeers(ctx, api)
		if err != nil {
			return err
		}

		for _, chatID := range o.chats {
			peer, ok := peers[chatID]
			if !ok {
				logger.Log.Warnf("Could not resolve chat ID %d (not joined or not in recent dialogs)", chatID)
				continue
			}
			found, scanned := scanHistory(ctx, api, peer, o.limit)
			logger.Log.Infof("Chat %d: %d links in %d messages", chatID, len(found), scanned)
			links = append(links, found...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return links, nil
}

// resolvePeers maps chat ids (bare and bot-API negative forms) to input peers.
func resolvePeers(ctx context.Context, api *tg.Client) (map[int64]tg.InputPeerClass, error) {
	dialogs, err := api.MessagesGetDialogs(ctx, &tg.MessagesGetDialogsRequest{
		OffsetPeer: &tg.InputPeerEmpty{},
		Limit:      100,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get dialogs: %w", err)
	}

	var chats []tg.ChatClass
	switch d := dialogs.(type) {
	case *tg.MessagesDialogs:
		chats = d.Chats
	case *tg.MessagesDialogsSlice:
		chats = d.Chats
	}

	peers := make(map[int64]tg.InputPeerClass)
	for _, chat := range chats {
		switch c := chat.(type) {
		case *tg.Channel:
			peer := &tg.InputPeerChannel{ChannelID: c.ID, AccessHash: c.AccessHash}
			peers[c.ID] = peer
			peers[-1000000000000-c.ID] = peer
		case *tg.Chat:
			peer := &tg.InputPeerChat{ChatID: c.ID}
			peers[c.ID] = peer
			peers[-c.ID] = peer
		}
	}
	return peers, nil
}

// scanHistory pages backwards through at most limit messages.
func scanHistory(ctx context.Context, api *tg.Client, peer tg.InputPeerClass, limit int) ([]string, int) {
	var links []string
	fetched, offsetID := 0, 0

	for fetched < limit {
		batch := 100
		if remaining := limit - fetched; remaining < batch {
			batch = remaining
		}

		history, err := api.MessagesGetHistory(ctx, &tg.MessagesGetHistoryRequest{
			Peer:     peer,
			Limit:    batch,
			OffsetID: offsetID,
		})
		if err != nil {
			logger.Log.Errorf("Failed to fetch history batch: %v", err)
			break
		}

		var messages []tg.MessageClass
		switch h := history.(type) {
		case *tg.MessagesMessages:
			messages = h.Messages
		case *tg.MessagesMessagesSlice:
			messages = h.Messages
		case *tg.MessagesChannelMessages:
			messages = h.Messages
		}
		if len(messages) == 0 {
			break
		}

		for _, msg := range messages {
			m, ok := msg.(*tg.Message)
			if !ok {
				continue
			}
			links = append(links, xray.ExtractLinks(m.Message)...)
			if offsetID == 0 || m.ID < offsetID {
				offsetID = m.ID
			}
		}
		fetched += len(messages)
	}
	return links, fetched
}

// termAuth prompts on the terminal for login data.
type termAuth struct{}

func prompt(label string) string {
	fmt.Print(label)
	text, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	return strings.TrimSpace(text)
}

func (termAuth) Phone(_ context.Context) (string, error) {
	return prompt("Enter phone number: "), nil
}

func (termAuth) Password(_ context.Context) (string, error) {
	return prompt("Enter 2FA password: "), nil
}

func (termAuth) Code(_ context.Context, _ *tg.AuthSentCode) (string, error) {
	return prompt("Enter code: "), nil
}

func (termAuth) SignUp(_ context.Context) (auth.UserInfo, error) {
	return auth.UserInfo{
		FirstName: prompt("Enter first name: "),
		LastName:  prompt("Enter last name: "),
	}, nil
}

func (termAuth) AcceptTermsOfService(_ context.Context, _ tg.HelpTermsOfService) error {
	return nil
}

func init() {
	collectors.Register("telegram", func() collectors.Collector {
		return &Collector{}
	})
}
