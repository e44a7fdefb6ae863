package kbo

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"kbostats-backend/lib/restyutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"
)

var tracer = otel.Tracer("scrapers/kbo")

const defaultBaseUrl = "https://www.koreabaseball.com"

// Client drives the record pages of the official site. The pages are
// ASP.NET web forms: state lives in hidden inputs that must be echoed
// back on every POST, and the pager works through postback events.
type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client
}

type ClientOptions struct {
	// BaseUrl overrides the production site, mainly for tests against
	// a local httptest server.
	BaseUrl string
	// Output, when set, receives a dump of every HTTP exchange.
	Output restyutil.InstrumentOutput
}

func NewClient(opts ClientOptions) (*Client, error) {
	baseUrl := opts.BaseUrl
	if baseUrl == "" {
		baseUrl = defaultBaseUrl
	}
	parsed, err := url.Parse(baseUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(baseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(parsed.Hostname()))
	client.SetTimeout(time.Second * 30)

	// 2 requests max per second, the site throttles faster crawls
	rateLimiter := rate.NewLimiter(2, 2)
	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return rateLimiter.Wait(req.Context())
	})

	restyutil.InstrumentClient(client, tracer, opts.Output)

	return &Client{
		BaseUrl: parsed,
		Http:    client,
	}, nil
}

func checkStatus(res *resty.Response) error {
	if res.StatusCode() != http.StatusOK {
		return fmt.Errorf("%s: unexpected status %s", res.Request.URL, res.Status())
	}
	return nil
}

func (c *Client) getDocument(ctx context.Context, path string) (*goquery.Document, error) {
	res, err := c.Http.R().
		SetContext(ctx).
		Get(path)
	if err != nil {
		return nil, err
	}
	if err := checkStatus(res); err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
}

// postForm submits the form and returns both the raw body (for the
// extractor) and the parsed document (for form state and the pager).
func (c *Client) postForm(ctx context.Context, path string, form map[string]string) (string, *goquery.Document, error) {
	res, err := c.Http.R().
		SetContext(ctx).
		SetFormData(form).
		Post(path)
	if err != nil {
		return "", nil, err
	}
	if err := checkStatus(res); err != nil {
		return "", nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		return "", nil, err
	}
	return string(res.Body()), doc, nil
}

func mergeForm(dst, src map[string]string) {
	for k, v := range src {
		dst[k] = v
	}
}

// FetchRecordPages drives the listing form for one combination and
// returns the HTML of every result page in visit order: the page the
// select POST lands on first, then one page per numbered pager button.
func (c *Client) FetchRecordPages(ctx context.Context, spec RequestSpec) ([]string, error) {
	ctx, span := tracer.Start(ctx, fmt.Sprintf("FetchRecordPages %s", spec))
	defer span.End()

	binding, ok := recordPages[spec.Category]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, spec.Category)
	}

	doc, err := c.getDocument(ctx, binding.path)
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch listing page")
		return nil, err
	}

	container := doc.Find(binding.container)
	if container.Length() == 0 {
		container = doc.Selection
	}
	params, err := BuildSelectParams(container, spec)
	if err != nil {
		span.SetStatus(codes.Error, "failed to resolve selectors")
		return nil, err
	}

	form := CollectHiddenInputs(doc)
	mergeForm(form, params)

	body, doc, err := c.postForm(ctx, binding.path, form)
	if err != nil {
		span.SetStatus(codes.Error, "failed to apply selectors")
		return nil, err
	}
	mergeForm(form, CollectHiddenInputs(doc))

	fragments := []string{body}
	for _, pb := range pagerPostbacks(doc) {
		pageForm := map[string]string{}
		mergeForm(pageForm, form)
		mergeForm(pageForm, params)
		pageForm["__EVENTTARGET"] = pb.target
		pageForm["__EVENTARGUMENT"] = pb.arg

		body, pageDoc, err := c.postForm(ctx, binding.path, pageForm)
		if err != nil {
			span.SetStatus(codes.Error, "failed to fetch pager page")
			return nil, err
		}
		mergeForm(form, CollectHiddenInputs(pageDoc))
		fragments = append(fragments, body)
	}

	return fragments, nil
}

// FetchStandingsPage returns the yearly standings page for a season.
func (c *Client) FetchStandingsPage(ctx context.Context, season int) (string, error) {
	ctx, span := tracer.Start(ctx, fmt.Sprintf("FetchStandingsPage %d", season))
	defer span.End()

	doc, err := c.getDocument(ctx, standingsPath)
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch standings page")
		return "", err
	}

	params, err := BuildSeasonParams(doc.Selection, season, true)
	if err != nil {
		span.SetStatus(codes.Error, "failed to resolve season selector")
		return "", err
	}

	form := CollectHiddenInputs(doc)
	mergeForm(form, params)

	body, _, err := c.postForm(ctx, standingsPath, form)
	if err != nil {
		span.SetStatus(codes.Error, "failed to apply season")
		return "", err
	}
	return body, nil
}

// FetchSummaryPages returns the league-wide team aggregate pages for
// one summary kind and season, paginated the same way record pages
// are.
func (c *Client) FetchSummaryPages(ctx context.Context, kind SummaryKind, season int) ([]string, error) {
	ctx, span := tracer.Start(ctx, fmt.Sprintf("FetchSummaryPages %s %d", kind, season))
	defer span.End()

	binding, ok := summaryPages[kind]
	if !ok {
		return nil, fmt.Errorf("%w: summary %q", ErrUnknownCategory, kind)
	}

	doc, err := c.getDocument(ctx, binding.path)
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch summary page")
		return nil, err
	}

	params, err := BuildSeasonParams(doc.Selection, season, binding.pinSeries)
	if err != nil {
		span.SetStatus(codes.Error, "failed to resolve season selector")
		return nil, err
	}

	form := CollectHiddenInputs(doc)
	mergeForm(form, params)

	body, doc, err := c.postForm(ctx, binding.path, form)
	if err != nil {
		span.SetStatus(codes.Error, "failed to apply season")
		return nil, err
	}
	mergeForm(form, CollectHiddenInputs(doc))

	fragments := []string{body}
	for _, pb := range pagerPostbacks(doc) {
		pageForm := map[string]string{}
		mergeForm(pageForm, form)
		mergeForm(pageForm, params)
		pageForm["__EVENTTARGET"] = pb.target
		pageForm["__EVENTARGUMENT"] = pb.arg

		body, pageDoc, err := c.postForm(ctx, binding.path, pageForm)
		if err != nil {
			span.SetStatus(codes.Error, "failed to fetch pager page")
			return nil, err
		}
		mergeForm(form, CollectHiddenInputs(pageDoc))
		fragments = append(fragments, body)
	}

	return fragments, nil
}
