package analyze

import (
	"fmt"
	"strings"
)

const (
	TemplateTravel = "travel_analysis"
	TemplateDining = "dining_analysis"
	TemplateHotel  = "hotel_analysis"

	maxPromptContent = 2000
)

// Template is a named system prompt. All templates share the same user
// prompt layout.
type Template struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	System      string `json:"-"`
}

var templates = []Template{
	{Name: TemplateTravel, Description: "通用旅游内容分析（景点攻略）", System: travelSystemPrompt},
	{Name: TemplateDining, Description: "美食探店分析", System: diningSystemPrompt},
	{Name: TemplateHotel, Description: "酒店住宿分析", System: hotelSystemPrompt},
}

// Templates lists the available templates.
func Templates() []Template {
	out := make([]Template, len(templates))
	copy(out, templates)
	return out
}

// LookupTemplate finds a template by name.
func LookupTemplate(name string) (Template, error) {
	for _, t := range templates {
		if t.Name == name {
			return t, nil
		}
	}
	return Template{}, fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
}

// TemplateFor returns the default template name for a content type.
func TemplateFor(ct ContentType) string {
	switch ct {
	case ContentDining:
		return TemplateDining
	case ContentHotel:
		return TemplateHotel
	default:
		return TemplateTravel
	}
}

// BuildPrompt renders the system and user prompts for a note.
func (t Template) BuildPrompt(note Note) (system, user string) {
	content := note.Content
	if r := []rune(content); len(r) > maxPromptContent {
		content = string(r[:maxPromptContent])
	}
	tags := "无"
	if len(note.Tags) > 0 {
		tags = strings.Join(note.Tags, ", ")
	}
	location := note.Location
	if location == "" {
		location = note.City
	}
	if location == "" {
		location = "未知"
	}

	var b strings.Builder
	b.WriteString("请分析以下旅游笔记：\n\n")
	fmt.Fprintf(&b, "【标题】\n%s\n\n", note.Title)
	fmt.Fprintf(&b, "【内容】\n%s\n\n", content)
	fmt.Fprintf(&b, "【标签】\n%s\n\n", tags)
	fmt.Fprintf(&b, "【地点】\n%s\n\n", location)
	fmt.Fprintf(&b, "【互动数据】\n点赞: %d | 收藏: %d | 评论: %d\n\n", note.Likes, note.Collects, note.Comments)
	b.WriteString("请按要求输出JSON分析结果：")
	return t.System, b.String()
}

const travelSystemPrompt = `你是一位资深的社交媒体分析师，专注于旅游内容分析。

你的任务是分析用户发布的旅游相关笔记，提取关键信息并给出结构化的分析结果。

分析维度：
1. 情感倾向：判断笔记的整体情感（positive/negative/neutral/mixed）
2. 情感分数：1-5分，5分最正面
3. SEO关键词：提取3-5个核心关键词
4. 内容摘要：50字以内的精炼摘要
5. 用户意图：种草推荐(recommend)、拔草避坑(warn)、体验评测(review)、求助提问(question)、经验分享(share)
6. 地点提取：识别笔记中提到的具体地点
7. 价格信息：如有提及价格，提取出来
8. 实用建议：提取对读者有用的建议
9. 内容质量：1-5分评估内容价值
10. 广告判断：是否疑似商业广告

输出要求：
- 必须输出纯净的JSON格式
- 不要包含markdown代码块标记
- 不要添加任何额外解释文字
- 所有字段必须填写，没有信息则留空字符串或空数组

JSON输出格式：
{
    "sentiment": "positive|negative|neutral|mixed",
    "sentiment_score": 1-5,
    "sentiment_reason": "判断理由",
    "keywords": ["关键词1", "关键词2", "关键词3"],
    "summary": "50字以内摘要",
    "user_intent": "recommend|warn|review|question|share",
    "places": ["地点1", "地点2"],
    "price_info": "价格信息",
    "tips": ["建议1", "建议2"],
    "quality_score": 1-5,
    "is_ad": false
}`

const diningSystemPrompt = `你是一位资深的美食探店分析师。

你的任务是分析美食探店类笔记，提取餐厅信息和用餐体验。

分析维度：
1. 餐厅名称和地址
2. 人均消费
3. 推荐菜品
4. 环境评价
5. 服务评价
6. 口味评价
7. 整体推荐度
8. 是否值得排队

输出JSON格式：
{
    "sentiment": "positive|negative|neutral|mixed",
    "sentiment_score": 1-5,
    "keywords": ["关键词1", "关键词2", "关键词3"],
    "summary": "50字以内摘要",
    "user_intent": "recommend|warn|review|question|share",
    "places": ["餐厅名"],
    "price_info": "人均消费",
    "tips": ["推荐菜品或建议"],
    "quality_score": 1-5,
    "is_ad": false
}`

const hotelSystemPrompt = `你是一位资深的酒店住宿分析师。

你的任务是分析酒店/民宿相关笔记，提取住宿体验信息。

分析维度：
1. 酒店名称和位置
2. 房型和价格
3. 设施评价
4. 服务评价
5. 卫生评价
6. 交通便利度
7. 性价比
8. 适合人群

输出JSON格式：
{
    "sentiment": "positive|negative|neutral|mixed",
    "sentiment_score": 1-5,
    "keywords": ["关键词1", "关键词2", "关键词3"],
    "summary": "50字以内摘要",
    "user_intent": "recommend|warn|review|question|share",
    "places": ["酒店名"],
    "price_info": "价格区间",
    "tips": ["建议1"],
    "quality_score": 1-5,
    "is_ad": false
}`
