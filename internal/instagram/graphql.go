package instagram

type graphQLResponse struct {
	Data struct {
		Media *shortcodeMedia `json:"xdt_shortcode_media"`
	} `json:"data"`
	Status string `json:"status"`
}

type dimensions struct {
	Height int `json:"height"`
	Width  int `json:"width"`
}

type mediaNode struct {
	IsVideo        bool       `json:"is_video"`
	VideoURL       string     `json:"video_url"`
	DisplayURL     string     `json:"display_url"`
	Dimensions     dimensions `json:"dimensions"`
	VideoViewCount int        `json:"video_view_count"`
}

type shortcodeMedia struct {
	mediaNode

	Owner struct {
		Username   string `json:"username"`
		FullName   string `json:"full_name"`
		IsVerified bool   `json:"is_verified"`
		IsPrivate  bool   `json:"is_private"`
	} `json:"owner"`

	IsAd bool `json:"is_ad"`

	Likes struct {
		Count int `json:"count"`
	} `json:"edge_media_preview_like"`

	Caption struct {
		Edges []struct {
			Node struct {
				Text string `json:"text"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"edge_media_to_caption"`

	Sidecar *struct {
		Edges []struct {
			Node mediaNode `json:"node"`
		} `json:"edges"`
	} `json:"edge_sidecar_to_children"`
}

func (n mediaNode) detail() MediaDetail {
	d := MediaDetail{
		Type:      "image",
		Width:     n.Dimensions.Width,
		Height:    n.Dimensions.Height,
		URL:       n.DisplayURL,
		Thumbnail: n.DisplayURL,
	}
	if n.IsVideo {
		d.Type = "video"
		d.URL = n.VideoURL
		d.ViewCount = n.VideoViewCount
	}
	return d
}

func (m *shortcodeMedia) toPost() *Post {
	post := &Post{
		PostInfo: PostInfo{
			OwnerUsername: m.Owner.Username,
			OwnerFullname: m.Owner.FullName,
			IsVerified:    m.Owner.IsVerified,
			IsPrivate:     m.Owner.IsPrivate,
			Likes:         m.Likes.Count,
			IsAd:          m.IsAd,
		},
	}
	if len(m.Caption.Edges) > 0 {
		post.PostInfo.Caption = m.Caption.Edges[0].Node.Text
	}

	nodes := []mediaNode{m.mediaNode}
	if m.Sidecar != nil && len(m.Sidecar.Edges) > 0 {
		nodes = nodes[:0]
		for _, e := range m.Sidecar.Edges {
			nodes = append(nodes, e.Node)
		}
	}

	for _, n := range nodes {
		d := n.detail()
		if d.URL == "" {
			continue
		}
		post.MediaDetails = append(post.MediaDetails, d)
		post.URLList = append(post.URLList, d.URL)
	}
	return post
}
