package features

// Tool names the research features may call.
const (
	ToolScrape = "firecrawl_scrape"
	ToolSearch = "firecrawl_search"
)

var researchTools = []string{ToolScrape, ToolSearch}

// Builtin returns the built-in catalog.
func Builtin() *Catalog {
	c, err := NewCatalog(builtinFeatures())
	if err != nil {
		panic("features: invalid built-in catalog: " + err.Error())
	}
	return c
}

func builtinFeatures() []Feature {
	return []Feature{
		{
			ID:          "blog-post",
			Name:        "Blog Post Writer",
			Description: "Generate data-grounded, SEO-aware, publish-ready blog posts with structured templates.",
			Icon:        "FileText",
			Category:    "Content",
			Fields: []Field{
				{Name: "topic", Label: "Blog Topic", Type: FieldText, Placeholder: "e.g., 10 Ways AI is Transforming Healthcare", Required: true},
				{Name: "primaryKeyword", Label: "Primary Keyword", Type: FieldText, Placeholder: "e.g., AI healthcare", Required: true},
				{Name: "tone", Label: "Tone", Type: FieldSelect, Required: true, DefaultValue: "authoritative", Options: []Option{
					{"authoritative", "Authoritative"},
					{"conversational", "Conversational"},
					{"technical", "Technical"},
					{"inspirational", "Inspirational"},
				}},
				{Name: "wordCount", Label: "Target Word Count", Type: FieldNumber, Placeholder: "2000", DefaultValue: "2000"},
				{Name: "additionalContext", Label: "Additional Context", Type: FieldTextarea, Placeholder: "Any specific points to cover, references, brand byline, etc."},
			},
			Tools: researchTools,
			Instructions: `You are an expert content strategist and long-form writer. You produce blog posts grounded in data you have actually read: never invent a statistic, and cite the source of every claim.

Your task: write a complete, publish-ready blog post on the topic below.

## Research
1. Search the topic to see what currently ranks.
2. Scrape the strongest results for data points, arguments, examples and gaps.
3. Identify the dominant reader, their main pain point and their awareness level.
4. Build a reference list of real statistics and examples. Every section draws from it.
5. Pick the format the results reward: how-to guide, listicle, case study or thought leadership.

## Writing rules
- Hook within the first 50 words.
- H2 for major sections, H3 for subsections, nothing deeper.
- Each section ends with an actionable takeaway.
- Second person unless told otherwise. Close with a specific call to action.
- Primary keyword density between 1% and 3%, with natural variation.
- Paragraphs of at most three sentences; use lists and bold key phrases.

## Output
The full post in markdown, following the chosen format.`,
			Message: `Write a blog post about: {{.topic}}

Primary Keyword: {{.primaryKeyword}}{{with .tone}}
Tone: {{.}}{{end}}{{with .wordCount}}
Target Word Count: {{.}}{{end}}{{with .additionalContext}}
Additional Context: {{.}}{{end}}`,
		},
		{
			ID:          "ad-copy",
			Name:        "Ad Copy Generator",
			Description: "Write platform-specific, data-grounded ad copy for Google, Meta, LinkedIn, and YouTube.",
			Icon:        "Megaphone",
			Category:    "Advertising",
			Fields: []Field{
				{Name: "productService", Label: "Product / Service / Offer", Type: FieldText, Placeholder: "e.g., SaaS project management tool", Required: true},
				{Name: "landingPageUrl", Label: "Landing Page URL", Type: FieldText, Placeholder: "https://example.com/product"},
				{Name: "targetAudience", Label: "Target Audience", Type: FieldText, Placeholder: "e.g., small business owners, warm traffic", Required: true},
				{Name: "primaryUsp", Label: "Primary USP or Offer", Type: FieldText, Placeholder: "e.g., Save 40% on project costs", Required: true},
				{Name: "primaryCta", Label: "Primary CTA", Type: FieldText, Placeholder: "e.g., Book Free Consultation", Required: true},
				{Name: "platform", Label: "Target Platform", Type: FieldSelect, Required: true, DefaultValue: "google-search", Options: []Option{
					{"google-search", "Google Search Ads (RSA)"},
					{"facebook-instagram", "Facebook / Instagram Ads"},
					{"linkedin", "LinkedIn Ads"},
					{"youtube", "YouTube Pre-Roll Script"},
					{"display", "Google Display / Banner Ads"},
				}},
				{Name: "tone", Label: "Tone", Type: FieldSelect, Required: true, DefaultValue: "professional", Options: []Option{
					{"professional", "Professional"},
					{"urgent", "Urgent"},
					{"conversational", "Conversational"},
					{"bold", "Bold"},
				}},
				{Name: "competitorUrl", Label: "Competitor Ad Reference URL", Type: FieldText, Placeholder: "https://competitor.com or N/A"},
				{Name: "compliance", Label: "Compliance Restrictions", Type: FieldText, Placeholder: "e.g., medical, finance or N/A"},
			},
			Instructions: `You are a senior performance-marketing copywriter. You write direct-response ad copy that converts, using only claims supported by the brand information and inputs you were given.

Your task: write platform-specific ad copy for the offer below.

## Rules
- Lead with the benefit, never the brand name.
- Every headline must stand on its own.
- Prefer specific numbers and proof over vague promises.
- Match the audience's awareness: educate cold traffic, differentiate for warm, create urgency for hot.
- In regulated industries avoid restricted terms such as "guaranteed" or "cure".
- The call to action demands a concrete step.
- Variations must differ in idea, not just wording.

## Output
- Google Search (RSA): 15 headlines of at most 30 characters, 4 descriptions of at most 90, a display path.
- Facebook / Instagram: primary text as hook, problem, solution, CTA; three variations (emotional, rational, social proof).
- LinkedIn: intro text under 600 characters, headline, description, CTA button.
- YouTube pre-roll: hook, problem, solution with proof, CTA across 30 seconds.
- Display: headline, subheadline, CTA and visual direction per banner size.`,
			Message: `Write ad copy for: {{.productService}}
Target Platform: {{.platform}}
Target Audience: {{.targetAudience}}
Primary USP: {{.primaryUsp}}
Primary CTA: {{.primaryCta}}
Tone: {{.tone}}{{with .landingPageUrl}}
Landing Page URL: {{.}}{{end}}{{with .competitorUrl}}
Competitor Reference: {{.}}{{end}}{{with .compliance}}
Compliance Restrictions: {{.}}{{end}}`,
		},
		{
			ID:          "seo-content",
			Name:        "SEO Content Writer",
			Description: "Write complete SEO articles engineered to outrank the current top 10 results.",
			Icon:        "Search",
			Category:    "SEO",
			Fields: []Field{
				{Name: "topic", Label: "Topic", Type: FieldText, Placeholder: "e.g., Best project management tools for small teams", Required: true},
				{Name: "primaryKeyword", Label: "Primary Keyword", Type: FieldText, Placeholder: "e.g., project management tools", Required: true},
				{Name: "secondaryKeywords", Label: "Secondary Keywords (3-5)", Type: FieldText, Placeholder: "e.g., team collaboration, task management, agile tools"},
				{Name: "targetAudience", Label: "Target Audience", Type: FieldText, Placeholder: "e.g., Small business owners and team leads", Required: true},
				{Name: "contentGoal", Label: "Content Goal", Type: FieldSelect, Required: true, DefaultValue: "rank", Options: []Option{
					{"rank", "Rank for Keyword"},
					{"leads", "Drive Leads"},
					{"authority", "Build Topical Authority"},
				}},
				{Name: "competitorUrls", Label: "Competitor URLs to Outperform", Type: FieldTextarea, Placeholder: "One URL per line, or N/A"},
			},
			Tools: researchTools,
			Instructions: `You are a senior SEO content specialist. Every structural choice in your articles is justified by search results you have scraped. You never invent statistics and you write for people first.

Your task: write a complete, publish-ready SEO article on the topic below.

## Research
Search the primary keyword, scrape the top results and note the sections most of them share, the questions people also ask and the weaknesses you can exploit.

## On-page rules
- Primary keyword in the H1, the first 100 words, at least two H2s and the meta description.
- Keyword density between 1% and 3%; weave in secondary keywords naturally.
- Each H2 answers a distinct intent found in the results.
- FAQ section with H3s phrased like the real questions.
- Two or three internal links and one or two authoritative external links.
- Meta description of 150 to 155 characters ending in a call to action; title tag of at most 60 characters.

## Output
Markdown with title tag, meta description, H1, an 80 to 120 word introduction, the H2 sections, FAQ, conclusion with CTA and a pre-publish checklist.`,
			Message: `Write an SEO article on: {{.topic}}

Primary Keyword: {{.primaryKeyword}}{{with .secondaryKeywords}}
Secondary Keywords: {{.}}{{end}}
Target Audience: {{.targetAudience}}
Content Goal: {{.contentGoal}}{{with .competitorUrls}}
Competitor URLs:
{{.}}{{end}}`,
		},
		{
			ID:          "content-brief",
			Name:        "Content Brief",
			Description: "Create SERP-informed content briefs with competitive analysis and structured outlines.",
			Icon:        "ClipboardList",
			Category:    "Strategy",
			Fields: []Field{
				{Name: "targetKeyword", Label: "Target Keyword", Type: FieldText, Placeholder: "e.g., how to start a podcast", Required: true},
				{Name: "contentGoal", Label: "Content Goal", Type: FieldSelect, Required: true, DefaultValue: "rank", Options: []Option{
					{"rank", "Rank in Search"},
					{"leads", "Drive Leads"},
					{"authority", "Build Topical Authority"},
				}},
				{Name: "targetAudience", Label: "Target Audience", Type: FieldText, Placeholder: "Auto-detected from SERP or specify manually"},
				{Name: "existingContentUrl", Label: "Existing Content URL (optional)", Type: FieldText, Placeholder: "To avoid self-cannibalisation"},
			},
			Tools: researchTools,
			Instructions: `You are an SEO content strategist who writes briefs for expert writers. A brief sets intent, structure and competitive context without dictating the prose. Every recommendation rests on search results you have scraped.

Your task: create a content brief for the keyword below.

## Analysis rules
- Only informational pages count toward the word-count average.
- Group headings by meaning, not exact wording.
- Topics covered by at least 40% of the top results are required sections; list those between 10% and 39% as opportunities.
- Title suggestions must be interchangeable.

## Output
# Content Brief: [keyword]
Target word count, primary keyword and search intent, then sections for title suggestions (three), keyword classification, SERP analysis, the top three competitors, format recommendations and a content outline with H2/H3 direction and word targets.`,
			Message: `Create a content brief for: {{.targetKeyword}}
Content Goal: {{.contentGoal}}{{with .targetAudience}}
Target Audience: {{.}}{{end}}{{with .existingContentUrl}}
Existing Content URL: {{.}}{{end}}`,
		},
		{
			ID:          "content-calendar",
			Name:        "Content Calendar",
			Description: "Build data-driven monthly editorial calendars with content pillars and repurposing chains.",
			Icon:        "Calendar",
			Category:    "Strategy",
			Fields: []Field{
				{Name: "brandWebsiteUrl", Label: "Brand Website / Blog URL", Type: FieldText, Placeholder: "https://example.com/blog", Required: true},
				{Name: "activePlatforms", Label: "Active Platforms", Type: FieldText, Placeholder: "e.g., Blog, LinkedIn, Instagram, Email, YouTube", Required: true},
				{Name: "campaignTheme", Label: "Campaign Theme / Monthly Focus", Type: FieldText, Placeholder: "e.g., Product launch or general evergreen content"},
				{Name: "postingFrequency", Label: "Posting Frequency per Platform", Type: FieldText, Placeholder: "e.g., Blog: 2x/week, Instagram: 5x/week", Required: true},
				{Name: "monthPeriod", Label: "Month / Period to Plan", Type: FieldText, Placeholder: "e.g., March 2025", Required: true},
				{Name: "competitorDomains", Label: "Competitor Domains (optional)", Type: FieldTextarea, Placeholder: "One domain per line, or N/A"},
			},
			Instructions: `You are a content strategist who builds editorial calendars around audience demand and disciplined content pillars. Topics come from the client context and your knowledge of the market, never from guesswork.

Your task: create a full monthly content calendar for the brand below.

## Pillars
Educational 40%, inspirational 25%, conversational 25%, promotional 10% (within 5 points).

## Rules
- Every piece maps to one pillar and carries a call to action.
- Batch related work: a long-form asset feeds social posts and an email recap.
- Promotional content never exceeds 10%.
- Each week has at least one evergreen and one timely piece.
- Give the full repurposing chain for every long-form piece.

## Output
A header (month, goal, theme, key dates), four weekly tables with columns Day | Pillar | Platform | Topic | Keyword Target | Format | CTA | Repurpose Into, a repurposing template and a tracking table.`,
			Message: `Create a monthly content calendar.
Brand Website: {{.brandWebsiteUrl}}
Active Platforms: {{.activePlatforms}}
Posting Frequency: {{.postingFrequency}}
Month: {{.monthPeriod}}{{with .campaignTheme}}
Campaign Theme: {{.}}{{end}}{{with .competitorDomains}}
Competitor Domains:
{{.}}{{end}}`,
		},
		{
			ID:          "email-marketing",
			Name:        "Email Marketing",
			Description: "Write complete marketing emails: newsletters, promos, welcome, re-engagement, and abandoned cart.",
			Icon:        "Mail",
			Category:    "Email",
			Fields: []Field{
				{Name: "purposeOffer", Label: "Purpose / Offer / Topic", Type: FieldText, Placeholder: "e.g., Launch of new premium plan", Required: true},
				{Name: "emailType", Label: "Email Type", Type: FieldSelect, Required: true, DefaultValue: "newsletter", Options: []Option{
					{"newsletter", "Newsletter"},
					{"promotional", "Promotional / Sales Email"},
					{"welcome", "Welcome Email"},
					{"reengagement", "Re-engagement Email"},
					{"abandoned-cart", "Abandoned Cart / Follow-up"},
				}},
				{Name: "primaryCta", Label: "Primary CTA", Type: FieldText, Placeholder: "e.g., Sign Up Now, Read More", Required: true},
				{Name: "tone", Label: "Tone", Type: FieldSelect, Required: true, DefaultValue: "professional", Options: []Option{
					{"professional", "Professional"},
					{"conversational", "Conversational"},
					{"urgent", "Urgent"},
					{"friendly", "Friendly"},
				}},
				{Name: "productPageUrl", Label: "Product / Landing Page URL", Type: FieldText, Placeholder: "Required for Promotional & Re-engagement types"},
				{Name: "deadline", Label: "Deadline or Urgency", Type: FieldText, Placeholder: "e.g., Offer ends Friday or N/A"},
				{Name: "additionalContext", Label: "Additional Context", Type: FieldTextarea, Placeholder: "Competitor newsletter URLs, brand voice notes, etc."},
			},
			Instructions: `You are a senior email marketer and direct-response copywriter. Every line earns its place, every claim is sourced and every email drives one clear action.

Your task: write a complete marketing email for the purpose below.

## Rules
- Subject line of 30 to 50 characters; preview text complements it.
- Open with the reader's pain or aspiration, never with "I", "We" or the brand name.
- "You" outnumbers "we" at least two to one.
- One primary call to action.
- Paragraphs of two or three sentences.
- Always finish with a P.S. line.
- Tie every feature to a benefit and every claim to the supplied information.

## Output
Subject line, preview text, the full body in the shape of the selected email type, and the P.S.`,
			Message: `Write a {{.emailType}} email about: {{.purposeOffer}}
Primary CTA: {{.primaryCta}}
Tone: {{.tone}}{{with .productPageUrl}}
Product/Landing Page URL: {{.}}{{end}}{{with .deadline}}
Deadline/Urgency: {{.}}{{end}}{{with .additionalContext}}
Additional Context: {{.}}{{end}}`,
		},
		{
			ID:          "social-media",
			Name:        "Social Media Posts",
			Description: "Create platform-native social content for LinkedIn, Twitter/X, Instagram, Facebook, and TikTok.",
			Icon:        "Share2",
			Category:    "Social",
			Fields: []Field{
				{Name: "topic", Label: "Topic / Campaign / Post Purpose", Type: FieldText, Placeholder: "e.g., New product launch announcement", Required: true},
				{Name: "platform", Label: "Target Platform", Type: FieldSelect, Required: true, DefaultValue: "linkedin", Options: []Option{
					{"linkedin", "LinkedIn"},
					{"twitter", "Twitter / X Thread"},
					{"instagram", "Instagram Caption"},
					{"facebook", "Facebook Post"},
					{"tiktok-reels", "TikTok / Reels Script"},
				}},
				{Name: "contentPillar", Label: "Content Pillar", Type: FieldSelect, Required: true, DefaultValue: "educational", Options: []Option{
					{"educational", "Educational"},
					{"inspirational", "Inspirational"},
					{"conversational", "Conversational"},
					{"promotional", "Promotional"},
				}},
				{Name: "tone", Label: "Tone", Type: FieldSelect, Required: true, DefaultValue: "professional", Options: []Option{
					{"professional", "Professional"},
					{"bold", "Bold"},
					{"friendly", "Friendly"},
					{"witty", "Witty"},
					{"motivational", "Motivational"},
				}},
				{Name: "sourceUrl", Label: "Source URL (optional)", Type: FieldText, Placeholder: "Article, report, or page this post is based on"},
				{Name: "ctaRequired", Label: "CTA Required?", Type: FieldSelect, DefaultValue: "yes", Options: []Option{
					{"yes", "Yes"},
					{"no", "No"},
				}},
			},
			Instructions: `You are a social media strategist who writes platform-native posts in the brand's own voice. No filler and no unsupported claims.

Your task: write social content for the topic below.

## Rules
- The first line is a hook that works alone.
- Every claim traces to the client information or inputs.
- End with an engagement question unless the post is purely promotional.
- Use emoji sparingly for professional brands.

## Output
- LinkedIn: 150 to 300 words with hook, insights, a short story, a question and hashtags.
- Twitter/X: a thread of 12 to 15 tweets of at most 280 characters.
- Instagram: 150 to 400 words with hook, story, numbered tips, a question and hashtags.
- Facebook: 100 to 250 words ending with a call to action and an engagement closer.
- TikTok/Reels: a 30 second script with on-screen text cues.`,
			Message: `Write a social media post about: {{.topic}}
Platform: {{.platform}}
Content Pillar: {{.contentPillar}}
Tone: {{.tone}}{{with .sourceUrl}}
Source URL: {{.}}{{end}}
CTA Required: {{.ctaRequired}}`,
		},
		{
			ID:          "video-script",
			Name:        "Video Script",
			Description: "Write shoot-ready video scripts with hooks, pacing, B-ROLL cues, and platform-specific formats.",
			Icon:        "Video",
			Category:    "Video",
			Fields: []Field{
				{Name: "topic", Label: "Topic / Product / Campaign", Type: FieldText, Placeholder: "e.g., How to use our analytics dashboard", Required: true},
				{Name: "videoType", Label: "Video Type", Type: FieldSelect, Required: true, DefaultValue: "educational", Options: []Option{
					{"educational", "Educational / Tutorial (Long-form)"},
					{"product-demo", "Product Demo / Explainer"},
					{"brand-story", "Brand Story / About Us"},
					{"testimonial", "Testimonial / Case Study"},
					{"short-form", "Short-form (TikTok / Reels / Shorts)"},
				}},
				{Name: "videoLength", Label: "Video Length Target", Type: FieldText, Placeholder: "e.g., 60s / 3 min / 8 min", Required: true},
				{Name: "platform", Label: "Platform", Type: FieldSelect, Required: true, DefaultValue: "youtube", Options: []Option{
					{"youtube", "YouTube"},
					{"tiktok", "TikTok"},
					{"instagram", "Instagram"},
					{"linkedin", "LinkedIn"},
					{"website", "Website Embed"},
				}},
				{Name: "primaryCta", Label: "Primary CTA", Type: FieldText, Placeholder: "e.g., Subscribe / Visit site / Book call", Required: true},
				{Name: "tone", Label: "Tone", Type: FieldSelect, Required: true, DefaultValue: "conversational", Options: []Option{
					{"educational", "Educational"},
					{"energetic", "Energetic"},
					{"conversational", "Conversational"},
					{"professional", "Professional"},
				}},
				{Name: "productPageUrl", Label: "Product / Landing Page URL", Type: FieldText, Placeholder: "Required for Product Demo type or N/A"},
				{Name: "additionalContext", Label: "Additional Context", Type: FieldTextarea, Placeholder: "Reference video URLs, specific points to cover, etc."},
			},
			Instructions: `You are a professional video scriptwriter. You write for the ear: short sentences, conversational rhythm and visual cues on every beat. Statistics come only from the supplied information.

Your task: write a shoot-ready script for the topic below.

## Rules
- Hook in the first five seconds, no logo slates or greetings.
- Sentences of 8 to 12 words.
- A pattern interrupt every 60 to 90 seconds.
- The call to action appears at the midpoint and at the end, in active voice.
- Mark [B-ROLL:], [ON-SCREEN TEXT:] and [VISUAL:] cues throughout.
- Long-form scripts carry chapter markers with timestamps.

## Output
A timecode table with Beat and Script columns. Long-form scripts start with pre-production notes: goal, SEO title, thumbnail concept and tags.`,
			Message: `Write a video script about: {{.topic}}
Video Type: {{.videoType}}
Video Length: {{.videoLength}}
Platform: {{.platform}}
Primary CTA: {{.primaryCta}}
Tone: {{.tone}}{{with .productPageUrl}}
Product Page URL: {{.}}{{end}}{{with .additionalContext}}
Additional Context: {{.}}{{end}}`,
		},
	}
}
