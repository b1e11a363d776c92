package trend

// Tag is one entry of the fixed classification taxonomy. Names must match
// the tag strings the crawler publishes.
type Tag struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// allDescription is shown for the All sentinel.
const allDescription = "显示全部类别"

var taxonomy = []Tag{
	{"Foundation Model", "开源或可训练的基础模型/大模型权重与训练框架"},
	{"Inference & Serving", "推理引擎、模型服务、加速与部署"},
	{"Fine-tuning & Training", "微调、训练框架、参数高效训练"},
	{"Quantization", "量化、低比特推理、模型压缩"},
	{"Agent Framework", "多智能体或代理应用框架"},
	{"Workflow Orchestration", "面向流程编排、自动化工作流平台"},
	{"RAG", "检索增强生成、索引与知识增强"},
	{"Vector Database", "向量数据库、向量检索引擎"},
	{"Coding Assistant", "代码生成/补全/重构等开发助手"},
	{"Chatbot", "对话机器人、客服/聊天应用"},
	{"Image & Video Generation", "图像/视频生成与编辑"},
	{"Audio & Speech", "语音识别/合成/音频生成"},
	{"AI Application", "AI 有关的应用程序，网站或客户端程序等"},
	{"Skill", "AI 技能库、技能/工具市场、可复用能力集合"},
	{"MCP", "Model Context Protocol 相关服务器/客户端/SDK/注册表"},
	{"LLMOps & Evaluation", "模型监控、评测、可观测性、数据/反馈闭环"},
	{"Security & Safety", "安全、对齐、红队、内容审核"},
	{"Data & Datasets", "数据集、数据清洗与数据标注工具"},
	{"Prompt Engineering", "提示词工程、Prompt 模板与最佳实践"},
	{"Benchmark & Evaluation", "基准测试、评测套件与排行榜"},
	{"AI for Science", "科学计算、材料/化学/生物等科研场景"},
	{"Robotics & Physical AI", "机器人、具身智能、物理世界交互"},
	{"Computer Vision", "传统视觉任务、检测/分割/三维重建/三维分割"},
	{"Middleware", "中间件、应用开发框架（Streamlit/Gradio）、搜索引擎（ES）等基础设施"},
}

// Taxonomy returns a copy of the fixed tag table in its canonical order.
func Taxonomy() []Tag {
	return append([]Tag(nil), taxonomy...)
}

// Describe returns the description of a taxonomy tag by exact name.
func Describe(name string) (string, bool) {
	if name == AllCategory {
		return allDescription, true
	}
	for _, t := range taxonomy {
		if t.Name == name {
			return t.Description, true
		}
	}
	return "", false
}

// LookupTag finds the taxonomy tag whose name matches label after
// normalization.
func LookupTag(label string) (Tag, bool) {
	want := Normalize(label)
	for _, t := range taxonomy {
		if Normalize(t.Name) == want {
			return t, true
		}
	}
	return Tag{}, false
}
