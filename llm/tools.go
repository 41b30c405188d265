package llm

import (
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	anthropic_params "github.com/anthropics/anthropic-sdk-go/packages/param"
	"github.com/openai/openai-go"
	openai_params "github.com/openai/openai-go/packages/param"
	"github.com/whatmeme/whatmeme-webapp/types"
	"github.com/xhd2015/llm-tools/jsonschema"
	"google.golang.org/genai"
)

// Tools converts tool declarations into each provider's function-calling shape
type Tools []types.ToolDeclaration

// ToOpenAI converts to OpenAI function tools
func (c Tools) ToOpenAI() []openai.ChatCompletionToolParam {
	var openaiTools []openai.ChatCompletionToolParam
	for _, tool := range c {
		openaiTools = append(openaiTools, openai.ChatCompletionToolParam{
			Function: openai.FunctionDefinitionParam{
				Name:        tool.Name,
				Description: openai_params.NewOpt(tool.Description),
				Parameters:  tool.Parameters(),
			},
		})
	}
	return openaiTools
}

// ToAnthropic converts to Anthropic custom tools
func (c Tools) ToAnthropic() []anthropic.ToolUnionParam {
	var anthropicTools []anthropic.ToolUnionParam
	for _, tool := range c {
		schema := tool.Parameters()
		anthropicTools = append(anthropicTools, anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        tool.Name,
				Description: anthropic_params.NewOpt(tool.Description),
				InputSchema: anthropic.ToolInputSchemaParam{
					Properties: schema["properties"],
					Required:   requiredNames(schema["required"]),
				},
				Type: "custom",
			},
		})
	}
	return anthropicTools
}

// ToGemini converts to a single Gemini tool holding every function declaration
func (c Tools) ToGemini() ([]*genai.Tool, error) {
	var decls []*genai.FunctionDeclaration
	for _, tool := range c {
		schema, err := toJSONSchema(tool.Parameters())
		if err != nil {
			return nil, fmt.Errorf("convert schema of %s: %w", tool.Name, err)
		}
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        tool.Name,
			Description: tool.Description,
			Parameters:  toGeminiSchema(schema),
		})
	}
	if len(decls) == 0 {
		return nil, nil
	}
	return []*genai.Tool{
		{
			FunctionDeclarations: decls,
		},
	}, nil
}

func requiredNames(v interface{}) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []interface{}:
		names := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				names = append(names, s)
			}
		}
		return names
	}
	return nil
}

func toJSONSchema(m map[string]interface{}) (*jsonschema.JsonSchema, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	var schema jsonschema.JsonSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, err
	}
	return &schema, nil
}

func toGeminiSchema(jschema *jsonschema.JsonSchema) *genai.Schema {
	if jschema == nil {
		return nil
	}
	return &genai.Schema{
		Type:        convertToGeminiType(jschema.Type),
		Description: jschema.Description,
		Properties:  toGeminiSchemaMap(jschema.Properties),
		Items:       toGeminiSchema(jschema.Items),
		Required:    jschema.Required,
		Default:     jschema.Default,
	}
}

func toGeminiSchemaMap(jschema map[string]*jsonschema.JsonSchema) map[string]*genai.Schema {
	if len(jschema) == 0 {
		return nil
	}
	schemaMap := make(map[string]*genai.Schema, len(jschema))
	for k, v := range jschema {
		schemaMap[k] = toGeminiSchema(v)
	}
	return schemaMap
}

func convertToGeminiType(t jsonschema.ParamType) genai.Type {
	switch t {
	case jsonschema.ParamTypeObject:
		return genai.TypeObject
	case jsonschema.ParamTypeString:
		return genai.TypeString
	case jsonschema.ParamTypeNumber:
		return genai.TypeNumber
	case jsonschema.ParamTypeBoolean:
		return genai.TypeBoolean
	case jsonschema.ParamTypeArray:
		return genai.TypeArray
	default:
		return genai.Type(t)
	}
}
