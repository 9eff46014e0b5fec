package prompt

import (
	"fmt"
	"strings"

	"support-assistant/internal/knowledge"
	"support-assistant/internal/session"
)

// maxRounds caps how much history goes into a prompt. One round is a user
// turn plus the assistant turn that answers it; a trailing unanswered user
// turn counts as a partial round.
const maxRounds = 3

const knowledgeHeader = "【语料库知识】"

const separator = "--------------------------------------------------"

// Build assembles the chat prompt from session history, the current query,
// and the retrieved knowledge items. The current query defaults to the last
// user turn in the windowed history when empty.
func Build(history []session.Message, query string, items []knowledge.Item) string {
	windowed := WindowRounds(history, maxRounds)
	if query == "" {
		query = latestUserQuery(windowed)
	}

	return fmt.Sprintf(promptTemplate,
		FormatHistory(windowed),
		query,
		FormatKnowledge(items),
	)
}

// WindowRounds keeps only the last n conversation rounds. An assistant turn
// closes the current round; a trailing user turn without an answer forms a
// partial round of its own.
func WindowRounds(history []session.Message, n int) []session.Message {
	if len(history) == 0 || n <= 0 {
		return nil
	}

	var rounds [][]session.Message
	var current []session.Message
	for _, msg := range history {
		current = append(current, msg)
		if msg.Role == "assistant" {
			rounds = append(rounds, current)
			current = nil
		}
	}
	if len(current) > 0 {
		rounds = append(rounds, current)
	}

	if len(rounds) > n {
		rounds = rounds[len(rounds)-n:]
	}

	windowed := make([]session.Message, 0, len(history))
	for _, round := range rounds {
		windowed = append(windowed, round...)
	}
	return windowed
}

// FormatHistory renders messages as labeled lines, one turn per line.
func FormatHistory(history []session.Message) string {
	var b strings.Builder
	for _, msg := range history {
		label := "助手"
		if msg.Role == "user" {
			label = "用户"
		}
		b.WriteString(label)
		b.WriteString(": ")
		b.WriteString(msg.Content)
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}

// FormatKnowledge renders knowledge items as a numbered FAQ block. Optional
// fields are omitted rather than rendered empty.
func FormatKnowledge(items []knowledge.Item) string {
	if len(items) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(knowledgeHeader)
	for i, item := range items {
		b.WriteString("\n")
		fmt.Fprintf(&b, "FAQ %d:\n", i+1)
		fmt.Fprintf(&b, "问题: %s\n", item.FAQ)
		fmt.Fprintf(&b, "回答: %s\n", item.Response)
		if item.Keywords != "" {
			fmt.Fprintf(&b, "关键词: %s\n", item.Keywords)
		}
		if item.AppImageURL != "" {
			fmt.Fprintf(&b, "APP端图片: %s\n", item.AppImageURL)
		}
		if item.PCImageURL != "" {
			fmt.Fprintf(&b, "PC端图片: %s\n", item.PCImageURL)
		}
		b.WriteString(separator)
	}
	return b.String()
}

// latestUserQuery returns the content of the last user turn, or "".
func latestUserQuery(history []session.Message) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == "user" {
			return history[i].Content
		}
	}
	return ""
}

const promptTemplate = `你是AiCoin应用的智能聊天助手，会根据用户的问题和提供的相关知识给出准确、全面的回答。

## 会话历史
%s

## 当前问题
%s

## 相关知识
%s

## 回答要求
请基于以上信息提供专业、简洁且全面的回答。请遵循以下原则：

1. **内容准确性**：以提供的相关知识为主要依据，减少自主生成的信息
2. **关联性判断**：自行判断相关知识与用户问题的匹配度，优先选择最相关的内容
3. **补充完善**：如果相关知识不足以完整回答问题，可基于你的知识进行合理补充

## 图片展示规则
当相关知识中包含图片URL时，请根据以下情况智能展示：

**需要展示图片的场景：**
- 用户询问操作步骤、使用方法、功能介绍
- 问题涉及界面、按钮、设置等可视化内容
- 回答中引用的知识点包含图片说明

**图片展示格式：**
- 如果知识点同时包含PC端和移动端图片，优先展示移动端图片（APP端图片）
- 使用markdown格式：` + "`![图片描述](图片URL)`" + `
- 图片描述应简洁明了，如"操作步骤图"、"界面示意图"、"设置页面"等
- 将图片放在回答的相关段落后或回答末尾

**示例：**
如果回答中使用了包含以下内容的知识点：
- APP端图片: https://example.com/app-guide.png
- PC端图片: https://example.com/pc-guide.png

请在回答适当位置添加：
![操作指引](https://example.com/app-guide.png)

请注意，只有在回答操作类问题且相关知识中包含图片URL时才需要添加图片。
`
