// Package telegramtest provides an in-memory Bot API server for tests.
package telegramtest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"gopkg.in/guregu/null.v3"

	"telegram-bot-client/pkg/telegram"
)

// DefaultToken is the bot token a Server accepts unless told otherwise.
const DefaultToken = "123456:test-token"

const (
	maxMessageLength = 4096
	defaultLimit     = 100
)

// Request is one call recorded by the server.
type Request struct {
	Method string
	Body   []byte
}

type failure struct {
	code       int
	desc       string
	retryAfter int
}

// Server is a fake Bot API. It keeps chats, messages and pending updates in
// memory and answers the methods the client uses with the same envelopes,
// status codes and descriptions as the real service.
type Server struct {
	srv   *httptest.Server
	token string
	me    telegram.User

	mu         sync.Mutex
	chats      map[int64]*telegram.Chat
	messages   map[int64]map[int64]*telegram.Message
	nextMsgID  int64
	updates    []telegram.Update
	nextUpdate int64
	arrived    chan struct{}
	failures   map[string][]failure
	requests   []Request
	webhook    string
	now        func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithToken sets the token the server accepts.
func WithToken(token string) Option {
	return func(s *Server) { s.token = token }
}

// WithClock replaces time.Now for message dates.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// NewServer starts a fake Bot API server. Call Close when done.
func NewServer(opts ...Option) *Server {
	s := &Server{
		token:      DefaultToken,
		me:         telegram.User{ID: 123456, IsBot: true, FirstName: "Test Bot", Username: "test_bot"},
		chats:      make(map[int64]*telegram.Chat),
		messages:   make(map[int64]map[int64]*telegram.Message),
		nextUpdate: 1,
		arrived:    make(chan struct{}),
		failures:   make(map[string][]failure),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.record, s.authorize, s.injectFailure)
	r.POST("/:bot/sendMessage", s.sendMessage)
	r.POST("/:bot/forwardMessage", s.forwardMessage)
	r.POST("/:bot/getUpdates", s.getUpdates)
	r.POST("/:bot/getMe", s.getMe)
	r.POST("/:bot/setWebhook", s.setWebhook)
	r.POST("/:bot/deleteWebhook", s.deleteWebhook)
	r.NoRoute(func(c *gin.Context) {
		reject(c, http.StatusNotFound, "Not Found", 0)
	})

	s.srv = httptest.NewServer(r)
	return s
}

// URL is the base URL to pass to telegram.WithAPIURL.
func (s *Server) URL() string { return s.srv.URL }

// Token is the bot token the server accepts.
func (s *Server) Token() string { return s.token }

// Me is the user getMe answers with.
func (s *Server) Me() telegram.User { return s.me }

// Close shuts the server down.
func (s *Server) Close() { s.srv.Close() }

// Transport returns an HTTP transport pointed at the server.
func (s *Server) Transport(opts ...telegram.HTTPOption) *telegram.HTTPTransport {
	opts = append([]telegram.HTTPOption{telegram.WithAPIURL(s.URL())}, opts...)
	return telegram.NewHTTPTransport(s.token, opts...)
}

// Bot returns a client talking to the server.
func (s *Server) Bot(opts ...telegram.Option) *telegram.Bot {
	return telegram.New(s.Transport(), opts...)
}

// AddChat registers a chat so messages can be sent to it.
func (s *Server) AddChat(chat telegram.Chat) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := chat
	s.chats[c.ID] = &c
	if s.messages[c.ID] == nil {
		s.messages[c.ID] = make(map[int64]*telegram.Message)
	}
}

// Message returns a stored message.
func (s *Server) Message(chatID, messageID int64) (telegram.Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.messages[chatID][messageID]
	if !ok {
		return telegram.Message{}, false
	}
	return *m, true
}

// Push stores a message written by from into an existing chat and queues
// an update for it. It returns the update id.
func (s *Server) Push(chatID int64, from telegram.User, text string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	chat, ok := s.chats[chatID]
	if !ok {
		panic(fmt.Sprintf("telegramtest: unknown chat %d", chatID))
	}
	u := from
	msg := s.storeLocked(chat, &u, func(m *telegram.Message) {
		m.Text = null.StringFrom(text)
	})
	return s.enqueueLocked(telegram.Update{Message: msg})
}

// PushUpdate queues an arbitrary update and returns its id. The UpdateID
// field of u is overwritten.
func (s *Server) PushUpdate(u telegram.Update) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enqueueLocked(u)
}

// Fail makes the next call to method answer with code and desc. A positive
// retryAfter is reported in the response parameters. Failures queue up.
func (s *Server) Fail(method string, code int, desc string, retryAfter int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method] = append(s.failures[method], failure{code: code, desc: desc, retryAfter: retryAfter})
}

// Requests returns every call received so far, in arrival order.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// Webhook returns the registered webhook URL.
func (s *Server) Webhook() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.webhook
}

func (s *Server) storeLocked(chat *telegram.Chat, from *telegram.User, fill func(*telegram.Message)) *telegram.Message {
	s.nextMsgID++
	c := *chat
	m := &telegram.Message{
		MessageID: s.nextMsgID,
		From:      from,
		Chat:      &c,
		Date:      s.now().Unix(),
	}
	fill(m)
	s.messages[chat.ID][m.MessageID] = m
	return m
}

func (s *Server) enqueueLocked(u telegram.Update) int64 {
	u.UpdateID = s.nextUpdate
	s.nextUpdate++
	s.updates = append(s.updates, u)
	close(s.arrived)
	s.arrived = make(chan struct{})
	return u.UpdateID
}

func (s *Server) chatLocked(id telegram.ChatID) (*telegram.Chat, bool) {
	if id.Username == "" {
		c, ok := s.chats[id.ID]
		return c, ok
	}
	name := strings.TrimPrefix(id.Username, "@")
	for _, c := range s.chats {
		if strings.EqualFold(c.Username, name) {
			return c, true
		}
	}
	return nil, false
}

func (s *Server) record(c *gin.Context) {
	body, _ := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	method := c.Request.URL.Path[strings.LastIndexByte(c.Request.URL.Path, '/')+1:]
	s.mu.Lock()
	s.requests = append(s.requests, Request{Method: method, Body: body})
	s.mu.Unlock()
	c.Next()
}

func (s *Server) authorize(c *gin.Context) {
	if c.Param("bot") != "bot"+s.token {
		reject(c, http.StatusUnauthorized, "Unauthorized", 0)
		return
	}
	c.Next()
}

func (s *Server) injectFailure(c *gin.Context) {
	method := c.Request.URL.Path[strings.LastIndexByte(c.Request.URL.Path, '/')+1:]
	s.mu.Lock()
	var f *failure
	if queued := s.failures[method]; len(queued) > 0 {
		f = &queued[0]
		s.failures[method] = queued[1:]
	}
	s.mu.Unlock()

	if f != nil {
		reject(c, f.code, f.desc, f.retryAfter)
		return
	}
	c.Next()
}

func respond(c *gin.Context, result any) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "result": result})
}

func reject(c *gin.Context, code int, desc string, retryAfter int) {
	body := gin.H{"ok": false, "error_code": code, "description": desc}
	if retryAfter > 0 {
		body["parameters"] = telegram.ResponseParameters{RetryAfter: retryAfter}
	}
	c.AbortWithStatusJSON(code, body)
}

func badRequest(c *gin.Context, desc string) {
	reject(c, http.StatusBadRequest, "Bad Request: "+desc, 0)
}

func bind(c *gin.Context, v any) bool {
	if err := json.NewDecoder(c.Request.Body).Decode(v); err != nil {
		badRequest(c, "invalid JSON body")
		return false
	}
	return true
}

type sendMessageParams struct {
	ChatID           *telegram.ChatID   `json:"chat_id"`
	Text             string             `json:"text"`
	ParseMode        telegram.ParseMode `json:"parse_mode"`
	ReplyToMessageID int64              `json:"reply_to_message_id"`
	ReplyMarkup      json.RawMessage    `json:"reply_markup"`
}

func (s *Server) sendMessage(c *gin.Context) {
	var p sendMessageParams
	if !bind(c, &p) {
		return
	}
	if p.ChatID == nil {
		badRequest(c, "chat_id is empty")
		return
	}
	if p.Text == "" {
		badRequest(c, "message text is empty")
		return
	}
	if len(p.ReplyMarkup) > 0 && !validMarkup(p.ReplyMarkup) {
		badRequest(c, "can't parse reply keyboard markup JSON object")
		return
	}

	text, entities, err := Render(p.Text, p.ParseMode)
	if err != nil {
		badRequest(c, "can't parse entities: "+err.Error())
		return
	}
	if text == "" {
		badRequest(c, "message text is empty")
		return
	}
	if utf8.RuneCountInString(text) > maxMessageLength {
		badRequest(c, "message is too long")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	chat, ok := s.chatLocked(*p.ChatID)
	if !ok {
		badRequest(c, "chat not found")
		return
	}
	var reply *telegram.Message
	if p.ReplyToMessageID != 0 {
		if reply, ok = s.messages[chat.ID][p.ReplyToMessageID]; !ok {
			badRequest(c, "message to reply not found")
			return
		}
	}

	me := s.me
	msg := s.storeLocked(chat, &me, func(m *telegram.Message) {
		m.Text = null.StringFrom(text)
		m.Entities = entities
		m.ReplyToMessage = reply
	})
	respond(c, msg)
}

// validMarkup accepts the four markup shapes the Bot API knows.
func validMarkup(raw json.RawMessage) bool {
	var m struct {
		Keyboard       [][]struct{ Text string }      `json:"keyboard"`
		Inline         [][]map[string]json.RawMessage `json:"inline_keyboard"`
		RemoveKeyboard bool                           `json:"remove_keyboard"`
		ForceReply     bool                           `json:"force_reply"`
	}
	if err := json.Unmarshal(raw, &m); err != nil {
		return false
	}
	switch {
	case m.Keyboard != nil:
		for _, row := range m.Keyboard {
			for _, b := range row {
				if b.Text == "" {
					return false
				}
			}
		}
		return true
	case m.Inline != nil:
		for _, row := range m.Inline {
			for _, b := range row {
				_, hasURL := b["url"]
				_, hasData := b["callback_data"]
				if hasURL == hasData {
					return false
				}
			}
		}
		return true
	}
	return m.RemoveKeyboard || m.ForceReply
}

type forwardMessageParams struct {
	ChatID     *telegram.ChatID `json:"chat_id"`
	FromChatID *telegram.ChatID `json:"from_chat_id"`
	MessageID  int64            `json:"message_id"`
}

func (s *Server) forwardMessage(c *gin.Context) {
	var p forwardMessageParams
	if !bind(c, &p) {
		return
	}
	if p.ChatID == nil || p.FromChatID == nil {
		badRequest(c, "chat_id is empty")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	to, ok := s.chatLocked(*p.ChatID)
	if !ok {
		badRequest(c, "chat not found")
		return
	}
	from, ok := s.chatLocked(*p.FromChatID)
	if !ok {
		badRequest(c, "chat not found")
		return
	}
	orig, ok := s.messages[from.ID][p.MessageID]
	if !ok {
		badRequest(c, "message to forward not found")
		return
	}

	me := s.me
	msg := s.storeLocked(to, &me, func(m *telegram.Message) {
		m.Text = orig.Text
		m.Entities = orig.Entities
		m.Caption = orig.Caption
		m.Photo = orig.Photo
		m.ForwardDate = orig.Date
		if from.Type == "channel" {
			fc := *from
			m.ForwardFromChat = &fc
		} else {
			m.ForwardFrom = orig.From
		}
	})
	respond(c, msg)
}

type getUpdatesParams struct {
	Offset  int64 `json:"offset"`
	Limit   int   `json:"limit"`
	Timeout int   `json:"timeout"`
}

func (s *Server) getUpdates(c *gin.Context) {
	var p getUpdatesParams
	if c.Request.ContentLength != 0 && !bind(c, &p) {
		return
	}
	if p.Limit <= 0 || p.Limit > defaultLimit {
		p.Limit = defaultLimit
	}

	deadline := time.NewTimer(time.Duration(p.Timeout) * time.Second)
	defer deadline.Stop()

	for {
		s.mu.Lock()
		if s.webhook != "" {
			s.mu.Unlock()
			reject(c, http.StatusConflict, "Conflict: can't use getUpdates method while webhook is active; use deleteWebhook to delete the webhook first", 0)
			return
		}
		s.confirmLocked(p.Offset)
		n := min(len(s.updates), p.Limit)
		batch := make([]telegram.Update, n)
		copy(batch, s.updates[:n])
		arrived := s.arrived
		s.mu.Unlock()

		if n > 0 || p.Timeout <= 0 {
			respond(c, batch)
			return
		}

		select {
		case <-arrived:
		case <-deadline.C:
			respond(c, []telegram.Update{})
			return
		case <-c.Request.Context().Done():
			return
		}
	}
}

// confirmLocked forgets updates below offset. A negative offset keeps only
// the last -offset updates.
func (s *Server) confirmLocked(offset int64) {
	if offset < 0 {
		if keep := int(-offset); keep < len(s.updates) {
			s.updates = s.updates[len(s.updates)-keep:]
		}
		return
	}
	i := 0
	for i < len(s.updates) && s.updates[i].UpdateID < offset {
		i++
	}
	s.updates = s.updates[i:]
}

func (s *Server) getMe(c *gin.Context) {
	respond(c, s.me)
}

func (s *Server) setWebhook(c *gin.Context) {
	var p struct {
		URL string `json:"url"`
	}
	if !bind(c, &p) {
		return
	}
	if p.URL != "" && !strings.HasPrefix(p.URL, "https://") {
		badRequest(c, "bad webhook: An HTTPS URL must be provided for webhook")
		return
	}
	s.mu.Lock()
	s.webhook = p.URL
	s.mu.Unlock()
	respond(c, true)
}

func (s *Server) deleteWebhook(c *gin.Context) {
	var p struct {
		DropPendingUpdates bool `json:"drop_pending_updates"`
	}
	if c.Request.ContentLength != 0 && !bind(c, &p) {
		return
	}
	s.mu.Lock()
	s.webhook = ""
	if p.DropPendingUpdates {
		s.updates = nil
	}
	s.mu.Unlock()
	respond(c, true)
}
