package handlers

import (
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"serenity-backend/internal/middleware"
)

// PageHandler serves the small server-rendered surface: the signup and
// login forms and the chat page itself. Everything dynamic goes through
// the JSON endpoints.
type PageHandler struct {
	logger *zap.Logger
}

func NewPageHandler(logger *zap.Logger) *PageHandler {
	return &PageHandler{logger: logger}
}

func (h *PageHandler) Signup(w http.ResponseWriter, r *http.Request) {
	h.render(w, signupTmpl, nil)
}

func (h *PageHandler) Login(w http.ResponseWriter, r *http.Request) {
	h.render(w, loginTmpl, nil)
}

func (h *PageHandler) Chat(w http.ResponseWriter, r *http.Request) {
	h.render(w, chatTmpl, map[string]string{
		"Name": middleware.GetUserName(r.Context()),
	})
}

func (h *PageHandler) render(w http.ResponseWriter, t *template.Template, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := t.Execute(w, data); err != nil {
		h.logger.Error("failed to render page", zap.String("template", t.Name()), zap.Error(err))
	}
}

var signupTmpl = template.Must(template.New("signup").Parse(`<!DOCTYPE html>
<html>
<head><title>Serenity — Sign up</title></head>
<body>
  <h1>Create your account</h1>
  <form method="POST" action="/signup">
    <input name="name" placeholder="Name" required>
    <input name="email" type="email" placeholder="Email" required>
    <input name="password" type="password" placeholder="Password" required>
    <button type="submit">Sign up</button>
  </form>
  <p>Already registered? <a href="/login">Log in</a></p>
</body>
</html>`))

var loginTmpl = template.Must(template.New("login").Parse(`<!DOCTYPE html>
<html>
<head><title>Serenity — Log in</title></head>
<body>
  <h1>Welcome back</h1>
  <form method="POST" action="/login">
    <input name="email" type="email" placeholder="Email" required>
    <input name="password" type="password" placeholder="Password" required>
    <button type="submit">Log in</button>
  </form>
  <p>New here? <a href="/signup">Sign up</a></p>
</body>
</html>`))

var chatTmpl = template.Must(template.New("chat").Parse(`<!DOCTYPE html>
<html>
<head><title>Serenity</title></head>
<body>
  <header>
    <h1>Serenity</h1>
    <span>Hi, {{.Name}}</span>
    <a href="/logout">Log out</a>
  </header>
  <aside>
    <button id="clearBtn">Clear history</button>
    <ul id="historyList"></ul>
  </aside>
  <main>
    <div id="messages"></div>
    <form id="chatForm">
      <input id="messageInput" placeholder="Type a message..." autocomplete="off">
      <button type="submit">Send</button>
    </form>
  </main>
  <script>
    const messagesEl = document.getElementById("messages");
    const historyEl = document.getElementById("historyList");

    function renderMessage(role, content) {
      const node = document.createElement("div");
      node.className = "msg " + role;
      node.textContent = content;
      messagesEl.appendChild(node);
      messagesEl.scrollTop = messagesEl.scrollHeight;
    }

    async function loadHistory() {
      const res = await fetch("/history");
      if (!res.ok) return;
      const rows = await res.json();
      historyEl.innerHTML = "";
      rows.forEach(row => {
        const li = document.createElement("li");
        li.textContent = row.title;
        const del = document.createElement("button");
        del.textContent = "✕";
        del.onclick = async () => {
          await fetch("/delete_chat/" + row.id, { method: "DELETE" });
          loadHistory();
        };
        li.appendChild(del);
        historyEl.appendChild(li);
      });
    }

    document.getElementById("chatForm").addEventListener("submit", async (e) => {
      e.preventDefault();
      const input = document.getElementById("messageInput");
      const message = input.value.trim();
      if (!message) return;
      input.value = "";
      renderMessage("user", message);
      const res = await fetch("/chat", {
        method: "POST",
        headers: { "Content-Type": "application/json" },
        body: JSON.stringify({ message })
      });
      if (res.ok) {
        const data = await res.json();
        renderMessage("assistant", data.reply);
        loadHistory();
      } else {
        renderMessage("assistant", "Sorry, something went wrong.");
      }
    });

    document.getElementById("clearBtn").addEventListener("click", async () => {
      await fetch("/clear_history", { method: "DELETE" });
      messagesEl.innerHTML = "";
      loadHistory();
    });

    loadHistory();
  </script>
</body>
</html>`))
