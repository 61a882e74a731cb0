package prompts

import (
	"errors"
	"fmt"

	"copy_ai_server/internal/types"
)

// PromptTemplate pairs the system instruction a chat session is created with
// and the user prompt sent as its first turn.
type PromptTemplate struct {
	SystemInstruction string
	UserTemplate      string
}

var ErrUnknownContentType = errors.New("no prompt template for content type")

// Lookup returns the template for a content type. Every value of
// types.ContentTypes has an entry; adding a content type without a case
// here makes TestLookupCoversEveryContentType fail.
func Lookup(contentType types.ContentType) (PromptTemplate, error) {
	switch contentType {
	case types.ProductDescription:
		return productDescription, nil
	case types.FacebookPost:
		return facebookPost, nil
	case types.InstagramCaption:
		return instagramCaption, nil
	case types.Tweet:
		return tweet, nil
	case types.LinkedInPost:
		return linkedInPost, nil
	default:
		return PromptTemplate{}, fmt.Errorf("%w: %q", ErrUnknownContentType, contentType)
	}
}

var productDescription = PromptTemplate{
	SystemInstruction: `You are an expert e-commerce copywriter specializing in creating persuasive and benefit-driven product descriptions.`,
	UserTemplate: `Write a {{length}} product description for the following product.

**Product Name:** {{productName}}
**Target Audience:** {{targetAudience}}
**Key Features/Benefits:**
{{features}}

Adopt a {{tone}} tone. The description should highlight the key benefits, evoke desire, and entice the target audience to make a purchase.
Format the output cleanly. Do not use placeholder text. Generate the final description directly.`,
}

var facebookPost = PromptTemplate{
	SystemInstruction: `You are a savvy social media marketer with expertise in crafting engaging Facebook posts that drive clicks and shares.`,
	UserTemplate: `Write a {{length}} Facebook post to promote a product.

**Product Name:** {{productName}}
**Target Audience:** {{targetAudience}}
**Key Features/Benefits:**
{{features}}

Adopt a {{tone}} tone. The post should be engaging, include a clear call-to-action (e.g., "Learn More", "Shop Now"), and use 2-3 relevant hashtags.
Structure the post for maximum readability on Facebook.`,
}

var instagramCaption = PromptTemplate{
	SystemInstruction: `You are a trendy and creative social media manager who excels at writing captivating Instagram captions.`,
	UserTemplate: `Write a {{length}} Instagram caption for a post about a product.

**Product Name:** {{productName}}
**Target Audience:** {{targetAudience}}
**Key Features/Benefits:**
{{features}}

Adopt a {{tone}} tone. The caption should be visually descriptive, use emojis appropriately to add personality, and include 5-7 relevant, popular hashtags to maximize reach.
Start with a strong hook to grab attention.`,
}

// The tweet template has no {{length}} slot; tweets are capped at 280 characters.
var tweet = PromptTemplate{
	SystemInstruction: `You are a concise and witty copywriter, a master of crafting impactful messages within Twitter's character limit.`,
	UserTemplate: `Write a compelling Tweet (under 280 characters) to generate buzz for a product.

**Product Name:** {{productName}}
**Target Audience:** {{targetAudience}}
**Key Features/Benefits:**
{{features}}

Adopt a {{tone}} tone. The Tweet must be short, punchy, and include a link placeholder [LINK]. Use 1-2 relevant hashtags.
The goal is to pique curiosity and drive traffic.`,
}

var linkedInPost = PromptTemplate{
	SystemInstruction: `You are a professional B2B marketer and thought leader, skilled at writing insightful and valuable content for a LinkedIn audience.`,
	UserTemplate: `Write a {{length}} LinkedIn post to introduce a product or service to a professional network.

**Product Name:** {{productName}}
**Target Audience:** {{targetAudience}}
**Key Features/Benefits:**
{{features}}

Adopt a {{tone}} tone. The post should focus on the value proposition, solve a problem for the target audience, and encourage professional discussion.
Avoid overly casual language and sales-y pitches. Include 2-3 professional hashtags.`,
}
