package sanitizers

import (
	"errors"
	"testing"

	"JaundiceScanner/internal/sanitizer"
)

const inosmiFixture = `<!DOCTYPE html>
<html>
<head><title>ИНОСМИ.РУ</title></head>
<body>
	<header><nav>Главная Политика Общество</nav></header>
	<h1 class="article-header__title">Test article title</h1>
	<article class="article">
		<script>window.counters = [];</script>
		<p>Some kind of text.</p>
	</article>
	<footer>© inosmi.ru</footer>
</body>
</html>`

func TestInosmiSanitize(t *testing.T) {
	t.Parallel()

	text, title, err := NewInosmiSanitizer().Sanitize(inosmiFixture)
	if err != nil {
		t.Fatalf("Sanitize returned error: %v", err)
	}
	if title != "Test article title" {
		t.Fatalf("expected title %q, got %q", "Test article title", title)
	}
	if text != "Some kind of text." {
		t.Fatalf("expected body %q, got %q", "Some kind of text.", text)
	}
}

func TestInosmiSanitizeMissingBody(t *testing.T) {
	t.Parallel()

	html := `<html><body><h1 class="article-header__title">Заголовок</h1><p>Без статьи</p></body></html>`

	_, _, err := NewInosmiSanitizer().Sanitize(html)
	var notFound *sanitizer.ArticleNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected *ArticleNotFoundError, got %v", err)
	}
	if notFound.Site != "inosmi.ru" {
		t.Fatalf("expected site inosmi.ru, got %q", notFound.Site)
	}
}

func TestInosmiSanitizeMissingTitle(t *testing.T) {
	t.Parallel()

	html := `<html><body><article class="article">Текст без заголовка</article></body></html>`

	_, _, err := NewInosmiSanitizer().Sanitize(html)
	var notFound *sanitizer.ArticleNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected *ArticleNotFoundError, got %v", err)
	}
}

func TestInosmiSanitizeStripsScripts(t *testing.T) {
	t.Parallel()

	html := `<html><body>
		<h1>Чистый текст</h1>
		<div class="article__text">
			<script>var garbage = 1;</script>
			<style>.a { color: red; }</style>
			Первая строка.
			Вторая   строка.
		</div>
	</body></html>`

	text, title, err := NewInosmiSanitizer().Sanitize(html)
	if err != nil {
		t.Fatalf("Sanitize returned error: %v", err)
	}
	if title != "Чистый текст" {
		t.Fatalf("unexpected title %q", title)
	}
	if text != "Первая строка. Вторая строка." {
		t.Fatalf("expected collapsed text without scripts, got %q", text)
	}
}

func TestDvmnSanitize(t *testing.T) {
	t.Parallel()

	html := `<html><body>
		<h1>Модуль про API</h1>
		<div class="text-col"><p>Урок про сетевые запросы.</p></div>
	</body></html>`

	text, title, err := NewDvmnSanitizer().Sanitize(html)
	if err != nil {
		t.Fatalf("Sanitize returned error: %v", err)
	}
	if title != "Модуль про API" {
		t.Fatalf("unexpected title %q", title)
	}
	if text != "Урок про сетевые запросы." {
		t.Fatalf("unexpected body %q", text)
	}
}

func TestDvmnSanitizeUnexpectedLayout(t *testing.T) {
	t.Parallel()

	_, _, err := NewDvmnSanitizer().Sanitize(`<html><body><p>Ни заголовка, ни колонки</p></body></html>`)
	var notFound *sanitizer.ArticleNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected *ArticleNotFoundError, got %v", err)
	}
	if notFound.Site != "dvmn.org" {
		t.Fatalf("expected site dvmn.org, got %q", notFound.Site)
	}
}
