package docmerger

import (
	"regexp"
	"strings"
)

// Токены в шаблоне имеют вид <$ИМЯ$>. Имя чувствительно к регистру.
const (
	tokenOpen  = "<$"
	tokenClose = "$>"
	// IDHeader — неявное имя поля идентификатора.
	IDHeader = "ID"
)

// Token возвращает токен-форму имени: <$NAME$>.
func Token(name string) string { return tokenOpen + name + tokenClose }

// Resolve возвращает значение токена по ярусам: идентификатор, затем поля
// записи, затем значения по умолчанию. Первый ярус с непустым значением
// выигрывает; пустое значение яруса не считается совпадением. Второй
// результат false — токен не разрешается и остаётся в тексте как есть.
func Resolve(name, id string, recHeaders, recValues, defHeaders, defValues []string) (string, bool) {
	if name == IDHeader {
		return id, true
	}
	if v, ok := lookup(name, recHeaders, recValues); ok {
		return v, true
	}
	return lookup(name, defHeaders, defValues)
}

func lookup(name string, headers, values []string) (string, bool) {
	for i, h := range headers {
		if h != name || i >= len(values) {
			continue
		}
		if values[i] != "" {
			return values[i], true
		}
	}
	return "", false
}

// Substitute подставляет все ярусы в text. Замены идут по накопленному
// тексту: ярус значений по умолчанию уже не видит токены, закрытые полями
// записи. Все вхождения токена заменяются за один проход.
func Substitute(text, id string, recHeaders, recValues, defHeaders, defValues []string) string {
	out := strings.ReplaceAll(text, Token(IDHeader), id)
	out = replacePairs(out, recHeaders, recValues)
	out = replacePairs(out, defHeaders, defValues)
	return out
}

var rxToken = regexp.MustCompile(`<\$(.+?)\$>`)

// Unresolved возвращает имена токенов, оставшихся в тексте после
// подстановки, без повторов, в порядке появления. Оставшийся токен —
// не ошибка, а повод для предупреждения оператору.
func Unresolved(text string) []string {
	var names []string
	seen := map[string]struct{}{}
	for _, m := range rxToken.FindAllStringSubmatch(text, -1) {
		if _, ok := seen[m[1]]; ok {
			continue
		}
		seen[m[1]] = struct{}{}
		names = append(names, m[1])
	}
	return names
}

func replacePairs(text string, headers, values []string) string {
	for i, h := range headers {
		if h == "" || i >= len(values) || values[i] == "" {
			continue
		}
		text = strings.ReplaceAll(text, Token(h), values[i])
	}
	return text
}
