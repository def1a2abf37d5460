package mailbox

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/mailsift/core"
)

// Params holds the connection parameters for an IMAP mailbox.
type Params struct {
	Host     string
	Port     string // defaults to "993" (IMAP over TLS)
	Username string
	Password string
}

// Client retrieves emails from an IMAP mailbox. Each fetch opens its own
// connection; the client holds no session state between calls.
type Client struct {
	params    Params
	parsePool *ants.Pool
	logger    *slog.Logger
}

// Option configures a Client.
type Option func(*Client) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// WithParsePoolSize sets the worker pool size for concurrent MIME parsing
// of fetched messages. Default is runtime.NumCPU() / 2, minimum 1.
func WithParsePoolSize(size int) Option {
	return func(c *Client) error {
		if size < 1 {
			size = 1
		}
		if c.parsePool != nil {
			c.parsePool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		c.parsePool = pool
		return nil
	}
}

// NewClient creates a mailbox client for the given connection parameters.
func NewClient(params Params, opts ...Option) (*Client, error) {
	if params.Host == "" {
		return nil, ErrHostRequired
	}
	if params.Username == "" || params.Password == "" {
		return nil, ErrCredentialsRequired
	}
	if params.Port == "" {
		params.Port = "993"
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	c := &Client{
		params:    params,
		parsePool: pool,
		logger:    slog.Default().With("component", "mailbox"),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(c); err != nil {
			c.parsePool.Release()
			return nil, err
		}
	}

	return c, nil
}

// Release frees the parse worker pool. The client should not be used
// after calling Release.
func (c *Client) Release() {
	if c.parsePool != nil {
		c.parsePool.Release()
	}
}

// connect dials the server and authenticates. The caller must log out.
func (c *Client) connect(_ context.Context) (*imapclient.Client, error) {
	addr := c.params.Host + ":" + c.params.Port

	client, err := imapclient.DialTLS(addr, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: connecting to %s: %v", core.ErrSourceUnavailable, addr, err)
	}

	if err := client.Login(c.params.Username, c.params.Password).Wait(); err != nil {
		_ = client.Logout().Wait()
		return nil, fmt.Errorf("%w: authentication failed for %s: %v",
			core.ErrSourceUnavailable, c.params.Username, err)
	}

	return client, nil
}

// FetchEmails retrieves up to limit messages from the given folder,
// newest first. A limit of 0 or less fetches the whole folder. All
// connection, authentication and folder failures are forwarded as
// core.ErrSourceUnavailable; the client never retries.
func (c *Client) FetchEmails(ctx context.Context, folder string, limit int) ([]core.Email, error) {
	if folder == "" {
		folder = core.DefaultFolder
	}

	client, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = client.Logout().Wait() }()

	if _, err := client.Select(folder, nil).Wait(); err != nil {
		return nil, fmt.Errorf("%w: selecting folder %q: %v", core.ErrSourceUnavailable, folder, err)
	}

	// An empty criteria set matches every message in the folder.
	searchData, err := client.UIDSearch(&imap.SearchCriteria{}, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("%w: searching folder %q: %v", core.ErrSourceUnavailable, folder, err)
	}

	uids := searchData.AllUIDs()
	if len(uids) == 0 {
		return nil, nil
	}

	// UIDs come back oldest first; keep the most recent ones.
	if limit > 0 && len(uids) > limit {
		uids = uids[len(uids)-limit:]
	}

	bodySection := &imap.FetchItemBodySection{Peek: true}
	fetchOpts := &imap.FetchOptions{
		Envelope:    true,
		UID:         true,
		BodySection: []*imap.FetchItemBodySection{bodySection},
	}

	fetchCmd := client.Fetch(imap.UIDSetNum(uids...), fetchOpts)
	defer fetchCmd.Close()

	var buffers []*imapclient.FetchMessageBuffer
	for {
		msg := fetchCmd.Next()
		if msg == nil {
			break
		}
		buf, err := msg.Collect()
		if err != nil {
			c.logger.Warn("skipping message that failed to collect", "err", err)
			continue
		}
		buffers = append(buffers, buf)
	}
	if err := fetchCmd.Close(); err != nil {
		return nil, fmt.Errorf("%w: fetching from folder %q: %v", core.ErrSourceUnavailable, folder, err)
	}

	emails := c.parseBuffers(buffers, bodySection, folder)

	// Newest first, matching mailbox listing order.
	for i, j := 0, len(emails)-1; i < j; i, j = i+1, j-1 {
		emails[i], emails[j] = emails[j], emails[i]
	}

	c.logger.Debug("fetched emails", "folder", folder, "count", len(emails))
	return emails, nil
}

// parseBuffers converts fetched messages into domain emails. MIME parsing
// dominates fetch post-processing, so it runs on the worker pool; input
// order is preserved.
func (c *Client) parseBuffers(buffers []*imapclient.FetchMessageBuffer, bodySection *imap.FetchItemBodySection, folder string) []core.Email {
	emails := make([]core.Email, len(buffers))

	var wg sync.WaitGroup
	for i, buf := range buffers {
		wg.Add(1)
		i, buf := i, buf
		submitErr := c.parsePool.Submit(func() {
			defer wg.Done()
			emails[i] = emailFromBuffer(buf, bodySection, folder)
		})
		if submitErr != nil {
			// Pool rejected the task (e.g. released); parse inline.
			emails[i] = emailFromBuffer(buf, bodySection, folder)
			wg.Done()
		}
	}
	wg.Wait()

	return emails
}
