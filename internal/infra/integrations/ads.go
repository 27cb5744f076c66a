package integrations

import (
	"context"
	"fmt"
	"strings"
)

// AdsPlatform 廣告平台 stub 素材由Copywriter生成 不真的投放
type AdsPlatform interface {
	GenerateCampaign(ctx context.Context, brief ProductBrief) (Campaign, error)
}

type StubAdsPlatform struct {
	copywriter Copywriter
}

func NewStubAdsPlatform(copywriter Copywriter) *StubAdsPlatform {
	return &StubAdsPlatform{copywriter: copywriter}
}

func (s *StubAdsPlatform) GenerateCampaign(ctx context.Context, brief ProductBrief) (Campaign, error) {
	productCopy, err := s.copywriter.GenerateCopy(ctx, brief)
	if err != nil {
		return Campaign{}, fmt.Errorf("generate campaign copy: %w", err)
	}

	headline := productCopy.Title
	if headline == "" {
		headline = brief.Title
	}
	body := productCopy.Description
	if body == "" {
		body = brief.Description
	}

	keywords := []string{strings.ToLower(brief.Category)}
	for _, highlight := range productCopy.Highlights {
		keywords = append(keywords, strings.ToLower(highlight))
	}

	return Campaign{
		Headline: headline,
		Body:     body,
		Keywords: keywords,
	}, nil
}
