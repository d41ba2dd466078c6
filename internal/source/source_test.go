package source

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		url  string
		want Kind
	}{
		{"https://www.instagram.com/reel/C1a2b3c4d5/", InstagramReel},
		{"https://www.instagram.com/someone/reel/C1a2b3c4d5/?igsh=abc", InstagramReel},
		{"https://example.com/shorts/reel/x", InstagramReel},
		{"https://youtube.com/shorts/pQ8ixfi8s4U", YouTubeShort},
		{"https://www.youtube.com/shorts/pQ8ixfi8s4U?feature=share", YouTubeShort},
		{"https://www.youtube.com/watch?v=pQ8ixfi8s4U", Generic},
		{"https://www.instagram.com/p/C1a2b3c4d5/", Generic},
		{"https://example.com/blog/post", Generic},
		{"not a url", Generic},
		{"", Generic},
	}

	for _, tc := range cases {
		if got := Classify(tc.url); got != tc.want {
			t.Errorf("Classify(%q) = %v, want %v", tc.url, got, tc.want)
		}
	}
}

func TestKindString(t *testing.T) {
	if InstagramReel.String() != "instagram_reel" || YouTubeShort.String() != "youtube_short" || Generic.String() != "generic" {
		t.Fatalf("unexpected kind names: %s %s %s", InstagramReel, YouTubeShort, Generic)
	}
}
