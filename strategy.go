package ouroborosstego

import (
	"fmt"

	"github.com/i5heu/ouroboros-stego/pkg/media"
)

// MaxMessageSize is the largest message, in characters (bytes), that can be
// embedded or will be accepted from a decoded length header.
const MaxMessageSize = 65536

// strategy embeds into and extracts from one media family. The family's
// policy func turns a category into its fixed layout.
type strategy struct {
	family media.Family
	policy func(media.Category) media.Policy
}

var (
	imageStrategy = strategy{family: media.FamilyImage, policy: fixedPolicy(media.Image)}
	audioStrategy = strategy{family: media.FamilyAudio, policy: audioPolicy}
	videoStrategy = strategy{family: media.FamilyVideo, policy: fixedPolicy(media.Video)}
)

// strategyFor selects the strategy for category.
func strategyFor(category media.Category) (strategy, error) {
	switch category.Family() {
	case media.FamilyImage:
		return imageStrategy, nil
	case media.FamilyAudio:
		return audioStrategy, nil
	case media.FamilyVideo:
		return videoStrategy, nil
	default:
		return strategy{}, fmt.Errorf("%w: category %s", ErrUnsupportedCategory, category)
	}
}

func fixedPolicy(category media.Category) func(media.Category) media.Policy {
	p, ok := category.Policy()
	if !ok {
		panic(fmt.Sprintf("ouroborosstego: no policy for %s", category))
	}
	return func(media.Category) media.Policy { return p }
}

// audioPolicy uses the mp3 layout for AudioMP3 and the wav layout for
// anything else in the audio family.
func audioPolicy(category media.Category) media.Policy {
	if category == media.AudioMP3 {
		p, _ := media.AudioMP3.Policy()
		return p
	}
	p, _ := media.AudioWAV.Policy()
	return p
}

// PolicyFor returns the offset/stride layout Embed and Extract use for
// category.
func PolicyFor(category media.Category) (media.Policy, error) {
	s, err := strategyFor(category)
	if err != nil {
		return media.Policy{}, err
	}
	return s.policy(category), nil
}
