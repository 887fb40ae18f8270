package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"freightops/harbormaster/internal/common"
	"freightops/harbormaster/internal/config"
	"freightops/harbormaster/internal/constants"
	"freightops/harbormaster/internal/db/repositories"
	"freightops/harbormaster/internal/extract"
	"freightops/harbormaster/internal/fieldmap"
	"freightops/harbormaster/internal/logging"
	"freightops/harbormaster/internal/metrics"
	"freightops/harbormaster/internal/models/dtos"
	gormmodels "freightops/harbormaster/internal/models/gorm"
	"freightops/harbormaster/internal/providers"
	"freightops/harbormaster/internal/registry"
)

// SyncRunStore records sync run lifecycles. Satisfied by
// repositories.SyncRunRepository.
type SyncRunStore interface {
	Start(ctx context.Context, runType string) (string, error)
	Complete(ctx context.Context, id string, itemCount, errorCount int) error
	Fail(ctx context.Context, id string, itemCount, errorCount int, errMsg string) error
}

// SyncSummary aggregates the outcome of one sync run.
type SyncSummary struct {
	RunID  string
	Pages  int
	Items  int
	Errors int
}

// ArticleSyncService mirrors the upstream article catalog into the local
// cache. Full syncs walk the paged offers listing; incremental syncs apply
// one full article payload at a time.
type ArticleSyncService struct {
	provider providers.CatalogProvider
	articles *repositories.ArticleRepository
	links    *repositories.ArticleLinkRepository
	runs     SyncRunStore
	ports    *registry.PortDirectory
	carriers *registry.CarrierDirectory

	extractor *extract.Extractor
	modes     *extract.ModeResolver
	fields    *fieldmap.Mapper

	cfg      config.SyncConfig
	pageSize int

	// sleep is swapped out in tests
	sleep func(time.Duration)
}

func NewArticleSyncService(
	provider providers.CatalogProvider,
	articles *repositories.ArticleRepository,
	links *repositories.ArticleLinkRepository,
	runs SyncRunStore,
	ports *registry.PortDirectory,
	carriers *registry.CarrierDirectory,
	extractor *extract.Extractor,
	cfg config.SyncConfig,
	pageSize int,
) *ArticleSyncService {
	var carrierLookup extract.CarrierLookup
	if carriers != nil {
		carrierLookup = carriers
	}
	return &ArticleSyncService{
		provider:  provider,
		articles:  articles,
		links:     links,
		runs:      runs,
		ports:     ports,
		carriers:  carriers,
		extractor: extractor,
		modes:     extract.NewModeResolver(carrierLookup),
		fields:    fieldmap.New(),
		cfg:       cfg,
		pageSize:  pageSize,
		sleep:     time.Sleep,
	}
}

// ---------------------------------------------------------------------------
// Full sync
// ---------------------------------------------------------------------------

// FullSync walks every page of the offers listing, upserts each distinct
// article and links parent/child pairs within each offer. Per-record
// failures are counted and skipped; only a listing failure aborts the run.
func (s *ArticleSyncService) FullSync(ctx context.Context) (*SyncSummary, error) {
	runID, err := s.runs.Start(ctx, constants.SyncRunFull)
	if err != nil {
		return nil, fmt.Errorf("failed to record sync run: %w", err)
	}
	log := logging.WithSyncRun(runID, constants.SyncRunFull)
	log.Infow("Full article sync started", "page_size", s.pageSize)

	summary := &SyncSummary{RunID: runID}
	seen := make(map[string]bool)

	page := 1
	for {
		listing, err := s.provider.ListOffers(ctx, page, s.pageSize)
		if err != nil {
			log.Errorw("Offer listing failed, aborting run", "page", page, "error", err)
			_ = s.runs.Fail(ctx, runID, summary.Items, summary.Errors, err.Error())
			return summary, err
		}
		summary.Pages++

		for _, offer := range listing.Items {
			s.syncOffer(ctx, &offer, seen, summary, log)
		}

		if page >= listing.TotalPages || len(listing.Items) == 0 {
			break
		}
		page++
	}

	if err := s.runs.Complete(ctx, runID, summary.Items, summary.Errors); err != nil {
		log.Warnw("Failed to finalize sync run", "error", err)
	}
	s.updateReviewGauge(ctx)
	log.Infow("Full article sync finished",
		"pages", summary.Pages, "items", summary.Items, "errors", summary.Errors)
	return summary, nil
}

// syncOffer upserts the distinct articles of one offer and then runs the
// positional parent/child linking pass over its line items.
func (s *ArticleSyncService) syncOffer(
	ctx context.Context,
	offer *dtos.Offer,
	seen map[string]bool,
	summary *SyncSummary,
	log interface {
		Warnw(string, ...interface{})
	},
) {
	type syncedLine struct {
		item    *dtos.OfferLineItem
		article *gormmodels.Article
	}
	lines := make([]syncedLine, 0, len(offer.LineItems))

	for i := range offer.LineItems {
		item := &offer.LineItems[i]
		if item.ArticleID == "" {
			continue
		}

		article := s.buildArticleFromLine(item, offer)
		if !seen[item.ArticleID] {
			seen[item.ArticleID] = true
			if err := s.articles.Upsert(ctx, article); err != nil {
				log.Warnw("Article upsert failed", "external_id", item.ArticleID, "error", err)
				summary.Errors++
				continue
			}
			summary.Items++
		}

		// Re-read so linking works with the stored row id even when the
		// article was first seen in an earlier offer.
		stored, err := s.articles.FindByExternalID(ctx, item.ArticleID)
		if err != nil || stored == nil {
			log.Warnw("Article lookup after upsert failed", "external_id", item.ArticleID, "error", err)
			summary.Errors++
			continue
		}
		lines = append(lines, syncedLine{item: item, article: stored})
	}

	// Positional linking: a parent line opens a context; matching surcharge
	// lines after it attach until the next parent appears.
	var currentParent *gormmodels.Article
	var parentKeywords []string

	for _, line := range lines {
		if line.article.IsParent {
			currentParent = line.article
			parentKeywords = s.parentKeywords(line.item.Name)
			continue
		}
		if currentParent == nil || !line.article.IsSurcharge {
			continue
		}
		if !overlapsKeywords(line.item.Name, parentKeywords) &&
			!matchesAny(line.item.Name, constants.SurchargeKeywords) {
			continue
		}

		link := &gormmodels.ArticleLink{
			ParentID:         currentParent.ID,
			ChildID:          line.article.ID,
			SortOrder:        line.item.Position,
			Required:         false,
			CostType:         line.article.Category,
			DefaultQty:       1,
			DefaultCostPrice: line.article.PriceAmount,
		}
		if err := s.links.Attach(ctx, link); err != nil {
			log.Warnw("Parent/child link failed",
				"parent", currentParent.ExternalID, "child", line.article.ExternalID, "error", err)
			summary.Errors++
		}
	}
}

// buildArticleFromLine derives all inferable attributes of an article from
// one offer line item.
func (s *ArticleSyncService) buildArticleFromLine(item *dtos.OfferLineItem, offer *dtos.Offer) *gormmodels.Article {
	now := time.Now().UTC()
	name := strings.TrimSpace(item.Name)

	article := &gormmodels.Article{
		ExternalID:    item.ArticleID,
		Name:          name,
		Description:   strings.TrimSpace(item.Description),
		PriceAmount:   decimal.NewFromFloat(item.Price),
		PriceCurrency: item.Currency,
		LastSyncedAt:  &now,
	}

	article.Code = s.deriveCode(name)

	if tag := s.extractor.ExtractServiceType(name); tag != "" {
		article.AddServiceTag(tag)
	}
	for _, tag := range codeDerivedTags(article.Code) {
		article.AddServiceTag(tag)
	}

	if carrier := s.extractor.ExtractShippingLine(name); carrier != "" {
		article.AddCarrier(s.canonicalCarrier(carrier))
	}

	if min, max, label, ok := parseQuantityTier(name); ok {
		article.QtyMin, article.QtyMax, article.QtyLabel = min, max, label
	}

	if divisor, fixed, ok := parsePricingFormula(name + " " + item.Description); ok {
		article.FormulaBase = "price"
		article.FormulaDivisor = divisor
		article.FormulaFixed = fixed
	}

	article.Category = classifyCategory(name)
	article.IsParent = isParentLine(name)
	article.IsSurcharge = isSurchargeLine(name)
	article.TransportMode = s.modes.Resolve(name, item.Description, article.Code, "")

	if pol := s.extractor.ExtractPOL(name); pol != nil {
		article.POLCode = pol.Code
		article.POLTerminal = pol.Terminal
	}
	if pod := s.extractor.ExtractPOD(name); pod != nil {
		article.PODCode = pod.Code
	}

	if offer != nil && offer.Client != nil {
		article.CustomerType = offer.Client.Type
	}

	article.NeedsReview = article.Code == "" ||
		len(article.Description) < s.cfg.MinDescriptionChars

	return article
}

// canonicalCarrier maps a carrier name or alias through the registry so
// every spelling lands on one canonical entry. Unknown names pass through
// uppercased.
func (s *ArticleSyncService) canonicalCarrier(name string) string {
	if s.carriers != nil {
		if c := s.carriers.CarrierByName(name); c != nil {
			return strings.ToUpper(c.Name)
		}
	}
	return strings.ToUpper(name)
}

// Code derivation heuristics, most reliable first.
var (
	codeTokenPattern   = regexp.MustCompile(`\b([A-Z]{2,4}\d{2,5})\b`)
	codeHyphenPattern  = regexp.MustCompile(`\b([A-Z]{2,5}-\d{2,5})\b`)
	codeBracketPattern = regexp.MustCompile(`\(([A-Z]{3,4}) ?(\d{2,5})\)`)
)

func (s *ArticleSyncService) deriveCode(name string) string {
	if m := codeTokenPattern.FindStringSubmatch(name); m != nil {
		return m[1]
	}
	if m := codeHyphenPattern.FindStringSubmatch(name); m != nil {
		return m[1]
	}
	if m := codeBracketPattern.FindStringSubmatch(name); m != nil {
		return m[1] + m[2]
	}
	if carrier := s.extractor.ExtractShippingLine(name); carrier != "" {
		if prefix, ok := constants.CarrierCodePrefix[carrier]; ok {
			return prefix
		}
	}
	return ""
}

// codeDerivedTags adds service tags implied by the code prefix itself.
func codeDerivedTags(code string) []string {
	switch {
	case strings.HasPrefix(code, "FCL"):
		return []string{constants.ServiceFCL}
	case strings.HasPrefix(code, "RORO"):
		return []string{constants.ServiceRoRo}
	default:
		return nil
	}
}

var (
	packPattern     = regexp.MustCompile(`(?i)\b(\d+)[- ]?pack\b`)
	vehiclesPattern = regexp.MustCompile(`(?i)\b(\d+)\s+vehicles?\b`)
)

// parseQuantityTier reads "N-pack" / "N vehicles" phrasing. Tiers are
// clamped to the 1-4 range the upstream pricing model supports.
func parseQuantityTier(name string) (min, max int, label string, ok bool) {
	m := packPattern.FindStringSubmatch(name)
	if m == nil {
		m = vehiclesPattern.FindStringSubmatch(name)
	}
	if m == nil {
		return 0, 0, "", false
	}

	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, 0, "", false
	}
	if n < 1 {
		n = 1
	}
	if n > 4 {
		n = 4
	}
	return 1, n, strings.TrimSpace(m[0]), true
}

var (
	divisorFormulaPattern = regexp.MustCompile(`(?i)(?:÷|/)\s*(\d+)\s*\+\s*(\d+(?:[.,]\d+)?)`)
	halfFormulaPattern    = regexp.MustCompile(`(?i)\bhalf\b[^+]*\+\s*(\d+(?:[.,]\d+)?)`)
)

// parsePricingFormula detects "÷N + fixed" and "half ... + fixed" phrasing.
func parsePricingFormula(text string) (divisor int, fixed decimal.Decimal, ok bool) {
	if m := divisorFormulaPattern.FindStringSubmatch(text); m != nil {
		d, err := strconv.Atoi(m[1])
		if err != nil || d == 0 {
			return 0, decimal.Zero, false
		}
		f, err := decimal.NewFromString(strings.ReplaceAll(m[2], ",", "."))
		if err != nil {
			return 0, decimal.Zero, false
		}
		return d, f, true
	}
	if m := halfFormulaPattern.FindStringSubmatch(text); m != nil {
		f, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", "."))
		if err != nil {
			return 0, decimal.Zero, false
		}
		return 2, f, true
	}
	return 0, decimal.Zero, false
}

func classifyCategory(name string) string {
	upper := strings.ToUpper(name)
	for _, family := range constants.CategoryKeywords {
		for _, kw := range family.Keywords {
			if strings.Contains(upper, kw) {
				return family.Category
			}
		}
	}
	return constants.CategoryOther
}

// isParentLine checks exclusions before inclusions; exclusions win.
func isParentLine(name string) bool {
	if matchesAny(name, constants.ParentExclusionKeywords) {
		return false
	}
	return matchesAny(name, constants.ParentKeywords)
}

// isSurchargeLine checks exclusions before inclusions; exclusions win.
func isSurchargeLine(name string) bool {
	if matchesAny(name, constants.SurchargeExclusionKeywords) {
		return false
	}
	return matchesAny(name, constants.SurchargeKeywords)
}

func matchesAny(name string, keywords []string) bool {
	upper := strings.ToUpper(name)
	for _, kw := range keywords {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}

var sizeTokenPattern = regexp.MustCompile(`(?i)\b(20|40)\s?FT\b|\b\d+[- ]?pack\b|\b\d+\s+vehicles?\b`)

// parentKeywords collects the tokens a child line must share with its
// parent: carrier name, route tokens and the service-size token.
func (s *ArticleSyncService) parentKeywords(name string) []string {
	var keywords []string
	if carrier := s.extractor.ExtractShippingLine(name); carrier != "" {
		keywords = append(keywords, carrier)
	}
	if pol := s.extractor.ExtractPOL(name); pol != nil {
		if pol.Code != "" {
			keywords = append(keywords, pol.Code)
		}
		if pol.PortName != "" {
			keywords = append(keywords, pol.PortName)
		}
	}
	if pod := s.extractor.ExtractPOD(name); pod != nil {
		if pod.Code != "" {
			keywords = append(keywords, pod.Code)
		}
		if pod.PortName != "" {
			keywords = append(keywords, pod.PortName)
		}
	}
	if m := sizeTokenPattern.FindString(name); m != "" {
		keywords = append(keywords, m)
	}
	return keywords
}

func overlapsKeywords(name string, keywords []string) bool {
	upper := strings.ToUpper(name)
	for _, kw := range keywords {
		if kw != "" && strings.Contains(upper, strings.ToUpper(kw)) {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Incremental sync
// ---------------------------------------------------------------------------

// SyncFromWebhook applies a webhook-delivered article payload. The payload
// is complete, so this path issues zero outbound calls except the optional
// best-effort child sync.
func (s *ArticleSyncService) SyncFromWebhook(ctx context.Context, detail *dtos.ArticleDetail) error {
	if detail == nil || detail.ID == "" {
		return fmt.Errorf("webhook payload has no article identity")
	}

	runID, err := s.runs.Start(ctx, constants.SyncRunWebhook)
	if err != nil {
		return fmt.Errorf("failed to record sync run: %w", err)
	}
	log := logging.WithSyncRun(runID, constants.SyncRunWebhook)

	article, err := s.ensureArticle(ctx, detail)
	if err != nil {
		_ = s.runs.Fail(ctx, runID, 0, 1, err.Error())
		return err
	}

	if err := s.applyMetadata(ctx, article, detail); err != nil {
		_ = s.runs.Fail(ctx, runID, 0, 1, err.Error())
		return err
	}

	if article.IsParent {
		// Webhook payloads carry the children inline; nothing to fetch.
		s.syncChildren(ctx, article, detail.Children(), log)
	}

	_ = s.runs.Complete(ctx, runID, 1, 0)
	s.updateReviewGauge(ctx)
	log.Infow("Webhook sync applied", "external_id", detail.ID)
	return nil
}

// RefreshMetadata fetches one article through the retry ladder and applies
// its metadata. Fetch exhaustion is not an error: the refresh is skipped
// and nil is returned so batch callers keep going.
func (s *ArticleSyncService) RefreshMetadata(ctx context.Context, externalID string) error {
	runID, err := s.runs.Start(ctx, constants.SyncRunMetadata)
	if err != nil {
		return fmt.Errorf("failed to record sync run: %w", err)
	}
	log := logging.WithSyncRun(runID, constants.SyncRunMetadata)

	detail := s.fetchWithRetry(ctx, externalID, log)
	if detail == nil {
		_ = s.runs.Complete(ctx, runID, 0, 1)
		return nil
	}

	article, err := s.ensureArticle(ctx, detail)
	if err != nil {
		_ = s.runs.Fail(ctx, runID, 0, 1, err.Error())
		return err
	}

	if err := s.applyMetadata(ctx, article, detail); err != nil {
		_ = s.runs.Fail(ctx, runID, 0, 1, err.Error())
		return err
	}

	if article.IsParent {
		children := detail.Children()
		if len(children) == 0 {
			// On-demand path: one extra details fetch, best effort.
			if refreshed, err := s.provider.GetArticle(ctx, externalID); err != nil {
				log.Warnw("Child item fetch skipped", "external_id", externalID, "error", err)
			} else {
				children = refreshed.Children()
			}
		}
		s.syncChildren(ctx, article, children, log)
	}

	_ = s.runs.Complete(ctx, runID, 1, 0)
	s.updateReviewGauge(ctx)
	return nil
}

// ensureArticle loads the cached row for a payload, creating a minimal one
// on first sighting.
func (s *ArticleSyncService) ensureArticle(ctx context.Context, detail *dtos.ArticleDetail) (*gormmodels.Article, error) {
	article, err := s.articles.FindByExternalID(ctx, detail.ID)
	if err != nil {
		return nil, err
	}
	if article != nil {
		return article, nil
	}

	item := &dtos.OfferLineItem{
		ArticleID:   detail.ID,
		Name:        detail.Name,
		Description: detail.Description,
		Price:       detail.SalePrice,
		Currency:    detail.Currency,
	}
	article = s.buildArticleFromLine(item, nil)
	if detail.Code != "" {
		article.Code = detail.Code
	}
	if err := s.articles.Upsert(ctx, article); err != nil {
		return nil, err
	}
	return s.articles.FindByExternalID(ctx, detail.ID)
}

// applyMetadata maps the two logical payload sections onto the cached row:
// the typed article attributes and the descriptive info block. Anything the
// payload leaves open is supplemented from the article's own name.
func (s *ArticleSyncService) applyMetadata(ctx context.Context, article *gormmodels.Article, detail *dtos.ArticleDetail) error {
	fields := detail.ExtraFieldMap()
	name := article.Name
	if detail.Name != "" {
		name = detail.Name
		article.Name = detail.Name
	}

	// Section 1: article attributes
	if carrier := s.fields.FindStringValue(fields, fieldmap.KeyCarrier); carrier != "" {
		article.AddCarrier(s.canonicalCarrier(carrier))
	}

	apiMode := extract.Normalize(s.fields.FindStringValue(fields, fieldmap.KeyTransportMode))
	if apiMode != "" {
		article.TransportMode = apiMode
		if tag := serviceTagForMode(apiMode); tag != "" {
			article.AddServiceTag(tag)
		}
	}

	if terminal := s.fields.FindStringValue(fields, fieldmap.KeyTerminal); terminal != "" {
		article.POLTerminal = terminal
	}
	if pol := s.fields.FindStringValue(fields, fieldmap.KeyPOLCode); isPortCode(pol) {
		article.POLCode = strings.ToUpper(pol)
	}
	if pod := s.fields.FindStringValue(fields, fieldmap.KeyPODCode); isPortCode(pod) {
		article.PODCode = strings.ToUpper(pod)
	}

	if parent := s.fields.GetBooleanValue(fields, fieldmap.KeyParentItem); parent != nil {
		article.IsParent = *parent
	}
	if mandatory := s.fields.GetBooleanValue(fields, fieldmap.KeyMandatory); mandatory != nil {
		article.Mandatory = *mandatory
	}
	if cond := s.fields.FindStringValue(fields, fieldmap.KeyMandatoryCondition); cond != "" {
		article.MandatoryCondition = cond
	}
	if notes := s.fields.FindStringValue(fields, fieldmap.KeyNotes); notes != "" {
		article.Notes = notes
	}
	if customerType := s.fields.FindStringValue(fields, fieldmap.KeyCustomerType); customerType != "" {
		article.CustomerType = customerType
	}

	// Section 2: descriptive info
	if info := s.fields.FindStringValue(fields, fieldmap.KeyDescriptionInfo); info != "" {
		article.Description = info
	} else if detail.Description != "" {
		article.Description = detail.Description
	}
	article.ValidFrom = sanitizeDate(s.fields.FindStringValue(fields, fieldmap.KeyValidFrom))
	article.ValidUntil = sanitizeDate(s.fields.FindStringValue(fields, fieldmap.KeyValidUntil))

	// Supplement anything still missing from the name itself.
	if article.POLCode == "" || article.POLTerminal == "" {
		if pol := s.extractor.ExtractPOL(name); pol != nil {
			if article.POLCode == "" {
				article.POLCode = pol.Code
			}
			if article.POLTerminal == "" {
				article.POLTerminal = pol.Terminal
			}
		}
	}
	if article.PODCode == "" {
		if pod := s.extractor.ExtractPOD(name); pod != nil {
			article.PODCode = pod.Code
		}
	}

	// The direction-aware tag parsed from the name always beats a bare
	// API-derived base tag.
	if tag := s.extractor.ExtractServiceType(name); isDirectionTag(tag) {
		base := strings.TrimSuffix(strings.TrimSuffix(tag, "_EXPORT"), "_IMPORT")
		tags := article.ServiceTags()
		replaced := make([]string, 0, len(tags)+1)
		for _, t := range tags {
			if t != base {
				replaced = append(replaced, t)
			}
		}
		replaced = append(replaced, tag)
		article.SetServiceTags(replaced)
	}

	s.resolveReviewFlag(article)

	now := time.Now().UTC()
	article.LastSyncedAt = &now
	return s.articles.Save(ctx, article)
}

// resolveReviewFlag applies the port-resolution rules: an unresolvable code
// flags the article; when both sides resolve (or carry no code at all) the
// flag clears.
func (s *ArticleSyncService) resolveReviewFlag(article *gormmodels.Article) {
	polOK := article.POLCode == "" || s.ports.PortByCode(article.POLCode) != nil
	podOK := article.PODCode == "" || s.ports.PortByCode(article.PODCode) != nil

	if !polOK || !podOK {
		article.NeedsReview = true
		return
	}
	article.NeedsReview = false
}

// updateReviewGauge refreshes the review-queue gauge after a run so the
// metric tracks sync outcomes instead of API traffic.
func (s *ArticleSyncService) updateReviewGauge(ctx context.Context) {
	count, err := s.articles.CountNeedingReview(ctx)
	if err != nil {
		return
	}
	metrics.ArticlesNeedingReview.Set(float64(count))
}

// syncChildren attaches the composite items of a parent. Best effort: any
// failure is logged and skipped, never propagated.
func (s *ArticleSyncService) syncChildren(
	ctx context.Context,
	parent *gormmodels.Article,
	children []dtos.CompositeItem,
	log interface {
		Warnw(string, ...interface{})
	},
) {
	for _, child := range children {
		if child.ArticleID == "" || child.ArticleID == parent.ExternalID {
			continue
		}

		childArticle, err := s.articles.FindByExternalID(ctx, child.ArticleID)
		if err != nil {
			log.Warnw("Child lookup failed", "child", child.ArticleID, "error", err)
			continue
		}
		if childArticle == nil {
			item := &dtos.OfferLineItem{
				ArticleID: child.ArticleID,
				Name:      child.Name,
				Price:     child.DefaultCostPrice,
			}
			if err := s.articles.Upsert(ctx, s.buildArticleFromLine(item, nil)); err != nil {
				log.Warnw("Child upsert failed", "child", child.ArticleID, "error", err)
				continue
			}
			childArticle, err = s.articles.FindByExternalID(ctx, child.ArticleID)
			if err != nil || childArticle == nil {
				log.Warnw("Child reload failed", "child", child.ArticleID, "error", err)
				continue
			}
		}

		link := &gormmodels.ArticleLink{
			ParentID:         parent.ID,
			ChildID:          childArticle.ID,
			SortOrder:        child.SortOrder,
			Required:         child.Required,
			Conditional:      child.Conditional,
			CostType:         child.CostType,
			DefaultQty:       child.DefaultQty,
			DefaultCostPrice: decimal.NewFromFloat(child.DefaultCostPrice),
			UnitType:         child.UnitType,
		}
		if err := s.links.Attach(ctx, link); err != nil {
			log.Warnw("Child link failed", "child", child.ArticleID, "error", err)
		}
	}
}

// fetchWithRetry runs the bounded retry ladder for one article fetch.
// Rate limits wait out the advertised cooldown, transient network errors
// back off exponentially, permanent rejections stop immediately. Exhaustion
// logs and returns nil instead of an error.
func (s *ArticleSyncService) fetchWithRetry(
	ctx context.Context,
	externalID string,
	log interface {
		Warnw(string, ...interface{})
	},
) *dtos.ArticleDetail {
	for attempt := 1; attempt <= s.cfg.MaxFetchAttempts; attempt++ {
		detail, err := s.provider.GetArticle(ctx, externalID)
		if err == nil {
			return detail
		}

		var rateErr *common.RateLimitError
		if errors.As(err, &rateErr) {
			log.Warnw("Article fetch rate limited",
				"external_id", externalID, "attempt", attempt, "cooldown", rateErr.RetryAfter.String())
			s.sleep(rateErr.RetryAfter)
			continue
		}

		var provErr *providers.ProviderError
		if errors.As(err, &provErr) {
			switch provErr.Code {
			case constants.ErrCodeNetworkError, constants.ErrCodeTimeout, constants.ErrCodeUpstreamError:
				delay := s.cfg.RetryBaseDelay * time.Duration(1<<(attempt-1))
				log.Warnw("Article fetch failed, backing off",
					"external_id", externalID, "attempt", attempt, "delay", delay.String(), "error", err)
				s.sleep(delay)
				continue
			default:
				log.Warnw("Article fetch rejected permanently",
					"external_id", externalID, "code", provErr.Code, "error", err)
				return nil
			}
		}

		log.Warnw("Article fetch failed", "external_id", externalID, "attempt", attempt, "error", err)
		s.sleep(s.cfg.RetryBaseDelay)
	}

	log.Warnw("Article fetch attempts exhausted", "external_id", externalID, "attempts", s.cfg.MaxFetchAttempts)
	return nil
}

// serviceTagForMode maps an API transport mode to the bare service tag it
// implies. Direction-aware tags from name parsing override these later.
func serviceTagForMode(mode string) string {
	switch mode {
	case constants.ModeFCL:
		return constants.ServiceFCL
	case constants.ModeRoRo:
		return constants.ServiceRoRo
	case constants.ModeSeafreight:
		return constants.ServiceSeafreight
	default:
		return ""
	}
}

func isDirectionTag(tag string) bool {
	return strings.HasSuffix(tag, "_EXPORT") || strings.HasSuffix(tag, "_IMPORT")
}

var portCodePattern = regexp.MustCompile(`^[A-Z]{3,4}$`)

func isPortCode(v string) bool {
	return portCodePattern.MatchString(strings.ToUpper(strings.TrimSpace(v)))
}

// sanitizeDate parses a metadata date and rejects the sentinels the
// upstream uses for "no date": zero dates and anything before 1900.
func sanitizeDate(v string) *time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}

	layouts := []string{"2006-01-02T15:04:05Z07:00", "2006-01-02 15:04:05", "2006-01-02", "02.01.2006"}
	for _, layout := range layouts {
		t, err := time.Parse(layout, v)
		if err != nil {
			continue
		}
		if t.Year() < 1900 {
			return nil
		}
		return &t
	}
	return nil
}
