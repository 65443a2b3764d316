package analyze

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/evcraddock/litetravel/internal/maps"
)

const defaultCity = "长沙"

// Source fetches notes for a keyword.
type Source interface {
	Type() SourceType
	FetchNotes(ctx context.Context, keyword, city string, limit int) ([]Note, error)
}

// InferContentType guesses a note's content type from its tags.
func InferContentType(tags []string) ContentType {
	joined := strings.ToLower(strings.Join(tags, " "))
	switch {
	case containsAny(joined, "美食", "探店", "餐厅", "火锅", "烧烤", "小吃"):
		return ContentDining
	case containsAny(joined, "酒店", "民宿", "住宿", "hotel"):
		return ContentHotel
	case containsAny(joined, "景点", "攻略", "旅游", "打卡", "风景"):
		return ContentAttraction
	case containsAny(joined, "交通", "地铁", "高铁", "机票", "出行"):
		return ContentCommute
	}
	return ContentGeneral
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// MockSource serves a fixed set of Changsha travel notes.
type MockSource struct{}

func (MockSource) Type() SourceType { return SourceMock }

// FetchNotes returns the canned notes mentioning keyword in their title,
// content or tags. When none match, all notes are returned.
func (MockSource) FetchNotes(ctx context.Context, keyword, city string, limit int) ([]Note, error) {
	if city == "" {
		city = defaultCity
	}
	keyword = strings.TrimSpace(keyword)

	var matched []Note
	for _, n := range mockNotes {
		if keyword == "" || strings.Contains(n.Title, keyword) || strings.Contains(n.Content, keyword) ||
			containsAny(strings.Join(n.Tags, " "), keyword) {
			matched = append(matched, n)
		}
	}
	if len(matched) == 0 {
		matched = mockNotes
	}

	out := make([]Note, 0, min(limit, len(matched)))
	for _, n := range matched {
		if len(out) == limit {
			break
		}
		n.City = city
		n.ContentType = InferContentType(n.Tags)
		n.Tags = append([]string(nil), n.Tags...)
		out = append(out, n)
	}
	slog.Debug("fetched mock notes", "keyword", keyword, "count", len(out))
	return out, nil
}

// MapSource turns map search results into short notes, so that places
// around a city can be analyzed without a social-media feed.
type MapSource struct {
	maps maps.Provider
}

func NewMapSource(p maps.Provider) *MapSource {
	return &MapSource{maps: p}
}

func (*MapSource) Type() SourceType { return SourceAmap }

// FetchNotes implements Source.
func (s *MapSource) FetchNotes(ctx context.Context, keyword, city string, limit int) ([]Note, error) {
	places, err := s.maps.Search(ctx, keyword, city, nil)
	if err != nil {
		return nil, fmt.Errorf("searching places: %w", err)
	}

	tags := []string{keyword}
	if city != "" {
		tags = append(tags, city)
	}
	contentType := InferContentType(tags)

	notes := make([]Note, 0, min(limit, len(places)))
	for _, p := range places {
		if len(notes) == limit {
			break
		}
		location := p.Address
		if location == "" {
			location = city
		}
		content := fmt.Sprintf("%s是%s搜索“%s”的结果。", p.Name, cityOrDefault(city), keyword)
		if p.Address != "" {
			content += fmt.Sprintf("地址：%s。", p.Address)
		}
		notes = append(notes, Note{
			ID:          "amap_" + p.ID,
			Source:      SourceAmap,
			Title:       p.Name,
			Content:     content,
			ContentType: contentType,
			Tags:        append([]string(nil), tags...),
			Location:    location,
			City:        city,
		})
	}
	return notes, nil
}

func cityOrDefault(city string) string {
	if city == "" {
		return defaultCity
	}
	return city
}

var mockNotes = []Note{
	{
		ID:     "mock_001",
		Source: SourceMock,
		Title:  "长沙三天两夜超全攻略！本地人带你玩转星城",
		Content: `来长沙一定要去这些地方！

Day1: 橘子洲头看日落，岳麓山爬山看风景，晚上去太平老街逛吃
Day2: 湖南省博物馆看马王堆，下午去文和友排队，晚上解放西路走一走
Day3: 茶颜悦色打卡，买点特产回家

人均花费：1500左右
交通：地铁很方便，打车也不贵

tips：
1. 臭豆腐要吃黑色经典
2. 茶颜悦色推荐幽兰拿铁
3. 夏天很热注意防晒！`,
		Tags:     []string{"长沙旅游", "长沙攻略", "湖南旅游", "周末游"},
		Location: "长沙",
		Likes:    5234,
		Collects: 3421,
		Comments: 234,
	},
	{
		ID:     "mock_002",
		Source: SourceMock,
		Title:  "长沙本地人推荐！这家湘菜馆真的绝了",
		Content: `在长沙吃了这么多年湘菜，这家真的是我心中的top1！

店名：xxx湘菜馆
地址：五一广场附近
人均：80-100

必点菜品：
- 剁椒鱼头（一定要点！）
- 小炒黄牛肉
- 口味虾
- 辣椒炒肉

环境很好，服务态度也不错，就是太火了要排队。建议工作日去！`,
		Tags:     []string{"长沙美食", "湘菜", "探店", "美食推荐"},
		Location: "长沙·五一广场",
		Likes:    2341,
		Collects: 1892,
		Comments: 156,
	},
	{
		ID:     "mock_003",
		Source: SourceMock,
		Title:  "避坑！这家网红酒店千万别住",
		Content: `被小红书骗了！说好的江景房结果看出去是工地...

优点：
- 位置还行，离地铁近
- 价格便宜

缺点：
- 隔音太差，走廊说话都能听到
- 空调不制冷
- 卫生堪忧，浴室有异味
- 服务态度很差

真的很失望，建议大家避开这家。宁愿多花点钱住好点的。`,
		Tags:     []string{"长沙住宿", "酒店避坑", "差评"},
		Location: "长沙",
		Likes:    892,
		Collects: 432,
		Comments: 89,
	},
}
