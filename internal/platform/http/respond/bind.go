package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// FieldError は拒否されたリクエストフィールド1件を表します。
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message,omitempty"`
}

// Bind はリクエストボディ（JSON または URL エンコードされたフォーム）を out に
// デコードし、binding ルールを検証します。失敗時はフィールドの詳細付きで
// 400 を書き込み、false を返します。
func Bind(c *gin.Context, out any) bool {
	if err := c.ShouldBind(out); err != nil {
		Fail(c, http.StatusBadRequest, bindMessage(err), LabelBadRequest, parseBindError(err, out))
		return false
	}
	return true
}

func bindMessage(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		return "Validation failed"
	}
	return "Invalid request body"
}

func parseBindError(err error, out any) any {
	rootType := baseStructType(out)

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		fields := make([]FieldError, 0, len(validationErrors))
		for _, fe := range validationErrors {
			fields = append(fields, FieldError{
				Field:   jsonFieldName(rootType, fe),
				Rule:    fe.Tag(),
				Param:   fe.Param(),
				Message: validationMessage(fe.Tag(), fe.Param()),
			})
		}
		return gin.H{"fields": fields}
	}

	var syntaxError *json.SyntaxError
	if errors.As(err, &syntaxError) || errors.Is(err, io.ErrUnexpectedEOF) {
		return gin.H{"json": "invalid_json_syntax"}
	}

	if errors.Is(err, io.EOF) {
		return gin.H{"json": "empty_body"}
	}

	var typeError *json.UnmarshalTypeError
	if errors.As(err, &typeError) {
		field := jsonPathFromDotPath(rootType, typeError.Field)
		return gin.H{
			"json": "invalid_json_type",
			"fields": []FieldError{{
				Field:   field,
				Rule:    "type",
				Message: fmt.Sprintf("must be of type %s", typeError.Type.String()),
			}},
		}
	}

	var maxBytesError *http.MaxBytesError
	if errors.As(err, &maxBytesError) {
		return gin.H{"json": "body_too_large", "limit": maxBytesError.Limit}
	}

	return nil
}

func baseStructType(v any) reflect.Type {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t != nil && t.Kind() == reflect.Struct {
		return t
	}
	return nil
}

// jsonFieldName は validator のエラーをトップレベルフィールドの JSON 名に変換します。
func jsonFieldName(rootType reflect.Type, fe validator.FieldError) string {
	if rootType == nil {
		return fe.Field()
	}
	if sf, ok := rootType.FieldByName(fe.StructField()); ok {
		return jsonNameFromStructField(sf)
	}
	return fe.Field()
}

func jsonPathFromDotPath(rootType reflect.Type, dotPath string) string {
	parts := strings.Split(strings.TrimSpace(dotPath), ".")
	out := make([]string, 0, len(parts))
	current := rootType
	for _, p := range parts {
		if p == "" {
			continue
		}
		name := p
		var next reflect.Type
		if current != nil && current.Kind() == reflect.Struct {
			// UnmarshalTypeError は JSON 名を返すため、先にタグで照合する
			for i := 0; i < current.NumField(); i++ {
				sf := current.Field(i)
				if jsonNameFromStructField(sf) == p || sf.Name == p {
					name = jsonNameFromStructField(sf)
					next = sf.Type
					break
				}
			}
		}
		out = append(out, name)
		for next != nil && next.Kind() == reflect.Pointer {
			next = next.Elem()
		}
		current = next
	}
	return strings.Join(out, ".")
}

func jsonNameFromStructField(sf reflect.StructField) string {
	name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return sf.Name
	}
	return name
}

func validationMessage(rule, param string) string {
	switch rule {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + param
	case "max":
		return "must be at most " + param
	case "oneof":
		return "must be one of " + strings.ReplaceAll(param, " ", ", ")
	default:
		if param != "" {
			return fmt.Sprintf("failed %s validation (%s)", rule, param)
		}
		return "failed " + rule + " validation"
	}
}
