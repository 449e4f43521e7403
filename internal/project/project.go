// Package project defines the Project Snapshot, the serializable unit of
// user work in the studio, along with the pure state helpers used on every
// load, save, import, and new-project path.
package project

import (
	"encoding/json"

	"github.com/hpungsan/strategist/internal/vault"
)

// Knowledge is the per-project industry/domain configuration. VaultContext is
// derived from the global knowledge vault and is never trusted from storage;
// it is rebuilt whenever a project is loaded, created, or imported.
type Knowledge struct {
	Industry          string `json:"industry"`
	DomainRules       string `json:"domainRules"`
	UploadedKnowledge string `json:"uploadedKnowledge,omitempty"`
	VisualStyle       string `json:"visualStyle,omitempty"`
	VideoStyle        string `json:"videoStyle,omitempty"`
	VaultContext      string `json:"vaultContext,omitempty"`
	IsConfirmed       bool   `json:"isConfirmed"`
}

// RealityAssetTag classifies one uploaded brand asset.
type RealityAssetTag struct {
	Index       int    `json:"index"`
	Type        string `json:"type"` // MENU | SPACE_DECOR | PRODUCT_SHOT | HUMAN | UNKNOWN
	Description string `json:"description"`
}

// RealityAnalysis holds the reality-check results attached to a strategy.
type RealityAnalysis struct {
	PriceSegment string            `json:"priceSegment"`
	DetectedVibe string            `json:"detectedVibe"`
	VisualKey    string            `json:"visualKey"`
	BrandColors  []string          `json:"brandColors"`
	AssetTags    []RealityAssetTag `json:"assetTags"`
	Adjustments  string            `json:"adjustments"`
	GapAnalysis  string            `json:"gapAnalysis"`
}

// Strategy is the generated marketing strategy.
type Strategy struct {
	Persona            string           `json:"persona"`
	USP                string           `json:"usp"`
	Angles             []string         `json:"angles"`
	RealityCheck       *RealityAnalysis `json:"realityCheck,omitempty"`
	SeasonalAdjustment string           `json:"seasonalAdjustment,omitempty"`
}

// TikTokSegment is one timed beat of a short-video script.
type TikTokSegment struct {
	Time      string `json:"time"`
	Visual    string `json:"visual"`
	Audio     string `json:"audio"`
	VeoPrompt string `json:"veoPrompt"`
}

// TikTokScript is a generated short-video script for a calendar day.
type TikTokScript struct {
	Title    string          `json:"title"`
	Segments []TikTokSegment `json:"segments"`
}

// DayDetail holds the generated content for one calendar day. The media
// fields carry base64/blob payloads in memory and are stripped before any
// storage write.
type DayDetail struct {
	Caption         string        `json:"caption"`
	VisualPrompt    string        `json:"visualPrompt"`
	SeedingScript   string        `json:"seedingScript"`
	TikTokScript    *TikTokScript `json:"tiktokScript,omitempty"`
	GeneratedImage  string        `json:"generatedImage,omitempty"`
	GeneratedImages []string      `json:"generatedImages,omitempty"`
	GeneratedVideo  string        `json:"generatedVideo,omitempty"`
}

// DayPlan is one entry of the content calendar.
type DayPlan struct {
	Day     int        `json:"day"`
	Topic   string     `json:"topic"`
	Angle   string     `json:"angle"`
	Details *DayDetail `json:"details,omitempty"`
}

// Creative holds cross-channel creative assets.
type Creative struct {
	ViralHooks        []string `json:"viralHooks"`
	SeedingMasterPlan string   `json:"seedingMasterPlan"`
	KOLConcepts       []string `json:"kolConcepts"`
}

// AdContent is the creative payload of an ad campaign.
type AdContent struct {
	SalesCopy      string `json:"salesCopy"`
	ImagePrompt    string `json:"imagePrompt"`
	VideoScript    string `json:"videoScript"`
	GeneratedImage string `json:"generatedImage,omitempty"`
	GeneratedVideo string `json:"generatedVideo,omitempty"`
}

// AdsData is the structure of one generated campaign.
type AdsData struct {
	CampaignName      string    `json:"campaignName"`
	CampaignStructure string    `json:"campaignStructure"`
	AdContent         AdContent `json:"adContent"`
}

// AdMetrics is user-entered campaign performance data.
type AdMetrics struct {
	Spend       float64 `json:"spend"`
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	Conversions int64   `json:"conversions"`
}

// KPICalc holds the derived performance ratios as display strings.
type KPICalc struct {
	CTR string `json:"ctr"`
	CPC string `json:"cpc"`
	CPA string `json:"cpa"`
}

// AdAnalysis is the generated assessment of a campaign's metrics.
type AdAnalysis struct {
	Score           float64  `json:"score"`
	Assessment      string   `json:"assessment"`
	KPICalc         KPICalc  `json:"kpiCalc"`
	Pros            []string `json:"pros"`
	Cons            []string `json:"cons"`
	Recommendations []string `json:"recommendations"`
}

// AdCampaign is one entry of the campaign dashboard.
type AdCampaign struct {
	ID          string      `json:"id"`
	Status      string      `json:"status"` // ACTIVE | COMPLETED
	CreatedAt   int64       `json:"createdAt"`
	Data        AdsData     `json:"data"`
	CustomInput string      `json:"customInput,omitempty"`
	Metrics     *AdMetrics  `json:"metrics,omitempty"`
	Analysis    *AdAnalysis `json:"analysis,omitempty"`
}

// CompetitorAudit is the competitor-research result.
type CompetitorAudit struct {
	HookStrategy        string `json:"hookStrategy"`
	Weaknesses          string `json:"weaknesses"`
	AttackOpportunities string `json:"attackOpportunities"`
}

// InsightMining is the audience-insight result.
type InsightMining struct {
	HiddenPain     string   `json:"hiddenPain"`
	BuyingBarriers string   `json:"buyingBarriers"`
	TriggerWords   []string `json:"triggerWords"`
}

// TrendPrediction is the trend-research result.
type TrendPrediction struct {
	UpcomingTrends []string `json:"upcomingTrends"`
	DebateTopics   []string `json:"debateTopics"`
	ContentIdeas   []string `json:"contentIdeas"`
}

// Spy holds the market-research workspace.
type Spy struct {
	CompetitorInput  string           `json:"competitorInput"`
	InsightInput     string           `json:"insightInput"`
	TrendInput       string           `json:"trendInput"`
	CompetitorResult *CompetitorAudit `json:"competitorResult,omitempty"`
	InsightResult    *InsightMining   `json:"insightResult,omitempty"`
	TrendResult      *TrendPrediction `json:"trendResult,omitempty"`
}

// SlideContent is one slide of a repurposed carousel.
type SlideContent struct {
	SlideNumber      int    `json:"slideNumber"`
	Content          string `json:"content"`
	VisualSuggestion string `json:"visualSuggestion"`
}

// RepurposeCarousel is a carousel derived from existing content.
type RepurposeCarousel struct {
	Slides []SlideContent `json:"slides"`
}

// RepurposeInfographic is an infographic outline derived from content.
type RepurposeInfographic struct {
	Title            string   `json:"title"`
	KeyPoints        []string `json:"keyPoints"`
	LayoutSuggestion string   `json:"layoutSuggestion"`
	IconSuggestions  []string `json:"iconSuggestions"`
}

// RepurposeVideoScript is a video script derived from content.
type RepurposeVideoScript struct {
	HookVisual      string `json:"hookVisual"`
	ScriptBody      string `json:"scriptBody"`
	CTA             string `json:"cta"`
	ProductionNotes string `json:"productionNotes"`
}

// EmailMessage is one message of an email sequence.
type EmailMessage struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// RepurposeEmailSequence is a three-step nurture sequence.
type RepurposeEmailSequence struct {
	Email1 EmailMessage `json:"email1"`
	Email2 EmailMessage `json:"email2"`
	Email3 EmailMessage `json:"email3"`
}

// Repurposing holds the content-repurposing workspace.
type Repurposing struct {
	InputContent        string                  `json:"inputContent"`
	CarouselResult      *RepurposeCarousel      `json:"carouselResult,omitempty"`
	InfographicResult   *RepurposeInfographic   `json:"infographicResult,omitempty"`
	VideoScriptResult   *RepurposeVideoScript   `json:"videoScriptResult,omitempty"`
	EmailSequenceResult *RepurposeEmailSequence `json:"emailSequenceResult,omitempty"`
}

// KOL holds the virtual-KOL workspace. DNAImage is the user-provided face
// reference and survives persistence; GeneratedImages are regenerable and
// are stripped before storage writes.
type KOL struct {
	DNAImage        string   `json:"dnaImage,omitempty"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	GeneratedImages []string `json:"generatedImages"`
}

// InfographicTemplate is a reusable visual template.
type InfographicTemplate struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	MasterPrompt        string   `json:"masterPrompt"`
	EnvironmentPrompt   string   `json:"environmentPrompt,omitempty"`
	LightingPrompt      string   `json:"lightingPrompt,omitempty"`
	CompositionKeywords string   `json:"compositionKeywords,omitempty"`
	NegativePrompt      string   `json:"negativePrompt,omitempty"`
	PreviewImage        string   `json:"previewImage,omitempty"`
	StyleTags           []string `json:"styleTags,omitempty"`
}

// InfographicPreset is a saved prompt preset.
type InfographicPreset struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	TemplatePrompt    string `json:"templatePrompt"`
	SystemInstruction string `json:"systemInstruction,omitempty"`
	ImageStyle        string `json:"imageStyle,omitempty"`
}

// Infographic holds the infographic-architect workspace. PromptEnhance is a
// pointer because its default is true: a stored explicit false must be
// distinguishable from "field missing, use default".
type Infographic struct {
	Templates         []InfographicTemplate `json:"templates"`
	CurrentTemplateID string                `json:"currentTemplateId,omitempty"`
	Presets           []InfographicPreset   `json:"presets"`
	CurrentPresetID   string                `json:"currentPresetId,omitempty"`

	UserProductImage     string `json:"userProductImage,omitempty"`
	ProductPhysicalDesc  string `json:"productPhysicalDesc"`
	ProductNameInput     string `json:"productNameInput"`
	InfographicIdeaInput string `json:"infographicIdeaInput"`
	PromptEnhance        *bool  `json:"isPromptEnhanceEnabled,omitempty"`

	GeneratedPrompt string   `json:"generatedPrompt"`
	GeneratedImage  string   `json:"generatedImage,omitempty"`
	GeneratedImages []string `json:"generatedImages"`
}

// MediaConfig controls how many media variants are generated per request.
type MediaConfig struct {
	ImageCount int `json:"imageCount"`
	VideoCount int `json:"videoCount"`
}

// Metadata is the lightweight index entry kept separately from the full
// snapshot for fast listing.
type Metadata struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	LastSaved int64  `json:"lastSaved"`
	Preview   string `json:"preview"`
}

// Snapshot is one full serialized marketing project. ID is empty until the
// first successful record-store write and never changes afterwards.
type Snapshot struct {
	ID          string `json:"id,omitempty"`
	ProjectName string `json:"projectName"`
	LastSaved   int64  `json:"lastSaved,omitempty"`

	Knowledge   *Knowledge   `json:"knowledge"`
	Spy         *Spy         `json:"spy"`
	Repurposing *Repurposing `json:"repurposing"`
	KOL         *KOL         `json:"kol"`
	Infographic *Infographic `json:"infographic"`

	KnowledgeVault []vault.File `json:"knowledgeVault"`
	MediaConfig    *MediaConfig `json:"mediaConfig"`

	ProductInput string       `json:"productInput"`
	CurrentStep  int          `json:"currentStep"`
	Strategy     *Strategy    `json:"strategy,omitempty"`
	Calendar     []DayPlan    `json:"calendar"`
	Creative     *Creative    `json:"creative,omitempty"`
	AdsCampaigns []AdCampaign `json:"adsCampaigns"`

	// Extra carries top-level fields this schema revision does not know
	// about, so loading and re-saving a newer snapshot does not drop them.
	Extra map[string]json.RawMessage `json:"-"`
}

// snapshotKeys lists the JSON keys owned by the typed fields above. Anything
// else lands in Extra.
var snapshotKeys = []string{
	"id", "projectName", "lastSaved",
	"knowledge", "spy", "repurposing", "kol", "infographic",
	"knowledgeVault", "mediaConfig",
	"productInput", "currentStep", "strategy", "calendar", "creative",
	"adsCampaigns",
}

// snapshotAlias drops the custom marshaling methods.
type snapshotAlias Snapshot

// UnmarshalJSON decodes the known fields and collects unknown top-level
// fields into Extra.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var a snapshotAlias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, k := range snapshotKeys {
		delete(raw, k)
	}
	if len(raw) > 0 {
		a.Extra = raw
	}

	*s = Snapshot(a)
	return nil
}

// MarshalJSON merges Extra back into the encoded object. Known fields always
// win over a stale Extra entry of the same name.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	b, err := json.Marshal(snapshotAlias(s))
	if err != nil {
		return nil, err
	}
	if len(s.Extra) == 0 {
		return b, nil
	}

	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	for k, v := range s.Extra {
		if _, ok := m[k]; !ok {
			m[k] = v
		}
	}
	return json.Marshal(m)
}

// Clone returns a deep copy via a JSON round trip, the same trick the
// persistence layer uses before trimming.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		cp := *s
		return &cp
	}
	var out Snapshot
	if err := json.Unmarshal(b, &out); err != nil {
		cp := *s
		return &cp
	}
	return &out
}

// HasContent reports whether the snapshot carries anything worth a named
// record. The original heuristic (product input or confirmed knowledge)
// could drop a project with a fully generated calendar but an empty product
// field, so generated output counts too.
func (s *Snapshot) HasContent() bool {
	if s == nil {
		return false
	}
	if s.ProductInput != "" {
		return true
	}
	if s.Knowledge != nil && s.Knowledge.IsConfirmed {
		return true
	}
	if s.Strategy != nil || len(s.Calendar) > 0 || len(s.AdsCampaigns) > 0 || s.Creative != nil {
		return true
	}
	if s.Repurposing != nil {
		r := s.Repurposing
		if r.CarouselResult != nil || r.InfographicResult != nil ||
			r.VideoScriptResult != nil || r.EmailSequenceResult != nil {
			return true
		}
	}
	if s.KOL != nil && len(s.KOL.GeneratedImages) > 0 {
		return true
	}
	if s.Infographic != nil && (s.Infographic.GeneratedImage != "" || len(s.Infographic.GeneratedImages) > 0) {
		return true
	}
	return false
}

// ApplyVault overwrites the snapshot's vault file list and derived context
// with the current global values. Stored vault data is always stale; this is
// what keeps an old project from reverting the shared knowledge base.
func (s *Snapshot) ApplyVault(files []vault.File, context string) {
	if files == nil {
		files = []vault.File{}
	}
	s.KnowledgeVault = files
	if s.Knowledge == nil {
		s.Knowledge = &Knowledge{}
	}
	s.Knowledge.VaultContext = context
}
