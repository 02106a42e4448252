package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Skotchmaster/parfum_shop/internal/models"
	"github.com/Skotchmaster/parfum_shop/internal/session"
)

type opDoneMsg struct {
	op  string
	err error
}

var formLabels = []string{
	"Название", "Категория", "Описание", "Производитель", "Поставщик",
	"Цена", "Ед. изм.", "На складе", "Скидка, %", "Изображение",
}

// Model drives a session.Session from the keyboard.
type Model struct {
	ctx    context.Context
	sess   *session.Session
	styles Styles

	login  []textinput.Model
	form   []textinput.Model
	focus  int
	cursor int

	confirm *models.Product
	status  string
	failed  bool
}

func New(ctx context.Context, sess *session.Session) Model {
	m := Model{ctx: ctx, sess: sess, styles: DefaultStyles()}

	user := textinput.New()
	user.Placeholder = "логин (пусто = гость)"
	pass := textinput.New()
	pass.Placeholder = "пароль"
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '•'
	m.login = []textinput.Model{user, pass}
	m.login[0].Focus()

	m.form = make([]textinput.Model, len(formLabels))
	for i := range m.form {
		m.form[i] = textinput.New()
		m.form[i].CharLimit = 256
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) run(op string, fn func() error) tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{op: op, err: fn()}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case opDoneMsg:
		return m.handleDone(msg), nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.sess.Snapshot().View {
		case session.ViewAuth:
			return m.updateAuth(msg)
		case session.ViewList:
			return m.updateList(msg)
		default:
			return m.updateForm(msg)
		}
	}
	return m, nil
}

func (m Model) handleDone(msg opDoneMsg) Model {
	m.failed = msg.err != nil
	switch {
	case msg.err == nil:
		m.status = ""
		if msg.op == "delete" {
			m.status = "Удалено"
		}
	case errors.Is(msg.err, session.ErrBusy):
		m.status = "Подождите, выполняется запрос"
	case msg.op == "login" || msg.op == "guest":
		m.status = ""
	default:
		m.status = fmt.Sprintf("%s: %v", msg.op, msg.err)
	}

	st := m.sess.Snapshot()
	if m.cursor >= len(st.Products) {
		m.cursor = max(0, len(st.Products)-1)
	}
	if msg.op == "logout" && msg.err == nil {
		for i := range m.login {
			m.login[i].SetValue("")
		}
		m.focusLogin(0)
	}
	return m
}

func (m Model) updateAuth(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyTab, tea.KeyShiftTab, tea.KeyUp, tea.KeyDown:
		m.focusLogin((m.focus + 1) % len(m.login))
		return m, nil
	case tea.KeyCtrlG:
		return m, m.run("guest", func() error { return m.sess.EnterAsGuest(m.ctx) })
	case tea.KeyEnter:
		username, password := m.login[0].Value(), m.login[1].Value()
		return m, m.run("login", func() error {
			if err := m.sess.SetCredentials(username, password); err != nil {
				return err
			}
			return m.sess.Login(m.ctx)
		})
	}

	var cmd tea.Cmd
	m.login[m.focus], cmd = m.login[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) focusLogin(i int) {
	m.focus = i
	for j := range m.login {
		if j == i {
			m.login[j].Focus()
		} else {
			m.login[j].Blur()
		}
	}
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := m.sess.Snapshot()

	if m.confirm != nil {
		target := *m.confirm
		m.confirm = nil
		if msg.String() != "y" && msg.String() != "д" {
			m.status = "Удаление отменено"
			m.failed = false
			return m, nil
		}
		return m, m.run("delete", func() error {
			_, err := m.sess.Delete(m.ctx, target.ID, func(p models.Product) bool { return p.ID == target.ID })
			return err
		})
	}

	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(st.Products)-1 {
			m.cursor++
		}
	case "r":
		return m, m.run("refresh", func() error { return m.sess.Refresh(m.ctx) })
	case "l":
		return m, m.run("logout", m.sess.Logout)
	case "a":
		if err := m.sess.StartAdd(); err != nil {
			return m.fail("add", err), nil
		}
		m.loadForm()
	case "e", "enter":
		if len(st.Products) == 0 {
			return m, nil
		}
		if err := m.sess.StartEdit(st.Products[m.cursor].ID); err != nil {
			return m.fail("edit", err), nil
		}
		m.loadForm()
	case "d":
		if len(st.Products) == 0 {
			return m, nil
		}
		if st.User == nil || !st.User.Role.CanDelete() {
			return m.fail("delete", session.ErrForbidden), nil
		}
		p := st.Products[m.cursor]
		m.confirm = &p
	}
	return m, nil
}

func (m Model) fail(op string, err error) Model {
	if errors.Is(err, session.ErrForbidden) {
		m.status = "Недостаточно прав"
	} else {
		m.status = fmt.Sprintf("%s: %v", op, err)
	}
	m.failed = true
	return m
}

func (m *Model) loadForm() {
	f := m.sess.Snapshot().Form
	values := []string{
		f.Name, f.Category, f.Description, f.Manufacturer, f.Supplier,
		f.Price, f.Unit, f.Stock, f.Discount, f.Image,
	}
	for i := range m.form {
		m.form[i].SetValue(values[i])
	}
	m.focusForm(0)
	m.status = ""
}

func (m Model) draft() session.Form {
	v := func(i int) string { return m.form[i].Value() }
	return session.Form{
		Name: v(0), Category: v(1), Description: v(2), Manufacturer: v(3), Supplier: v(4),
		Price: v(5), Unit: v(6), Stock: v(7), Discount: v(8), Image: v(9),
	}
}

func (m *Model) focusForm(i int) {
	m.focus = i
	for j := range m.form {
		if j == i {
			m.form[j].Focus()
		} else {
			m.form[j].Blur()
		}
	}
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		if err := m.sess.Back(); err != nil {
			return m.fail("back", err), nil
		}
		m.status = ""
		return m, nil
	case tea.KeyTab, tea.KeyDown:
		m.focusForm((m.focus + 1) % len(m.form))
		return m, nil
	case tea.KeyShiftTab, tea.KeyUp:
		m.focusForm((m.focus + len(m.form) - 1) % len(m.form))
		return m, nil
	case tea.KeyCtrlS, tea.KeyEnter:
		if msg.Type == tea.KeyEnter && m.focus < len(m.form)-1 {
			m.focusForm(m.focus + 1)
			return m, nil
		}
		draft := m.draft()
		return m, m.run("save", func() error {
			if err := m.sess.SetForm(draft); err != nil {
				return err
			}
			return m.sess.Save(m.ctx)
		})
	}

	var cmd tea.Cmd
	m.form[m.focus], cmd = m.form[m.focus].Update(msg)
	return m, cmd
}

func (m Model) View() string {
	st := m.sess.Snapshot()

	var sb strings.Builder
	switch st.View {
	case session.ViewAuth:
		sb.WriteString(m.styles.Title.Render("Парфюмерный каталог: вход"))
		sb.WriteString("\n")
		for _, in := range m.login {
			sb.WriteString(in.View())
			sb.WriteString("\n")
		}
		if st.LoginError != "" {
			sb.WriteString(m.styles.Error.Render(st.LoginError))
			sb.WriteString("\n")
		}
		sb.WriteString(m.styles.Muted.Render("enter: войти  ctrl+g: гость  esc: выход"))
	case session.ViewList:
		who := "гость"
		if st.User != nil && st.User.Username != "" {
			who = fmt.Sprintf("%s (%s)", st.User.Username, st.User.Role)
		}
		sb.WriteString(m.styles.Title.Render("Каталог: " + who))
		sb.WriteString("\n")
		if len(st.Products) == 0 {
			sb.WriteString(m.styles.Muted.Render("Товаров нет"))
			sb.WriteString("\n")
		} else {
			sb.WriteString(RenderProducts(st.Products, m.cursor, m.styles))
		}
		if m.confirm != nil {
			sb.WriteString(m.styles.Error.Render(fmt.Sprintf("Удалить «%s»? (y/n)", m.confirm.Name)))
			sb.WriteString("\n")
		}
		sb.WriteString(m.styles.Muted.Render(m.listHelp(st.User)))
	default:
		title := "Новый товар"
		if st.View == session.ViewEdit && st.Selected != nil {
			title = fmt.Sprintf("Редактирование #%d", st.Selected.ID)
		}
		var body strings.Builder
		for i, in := range m.form {
			body.WriteString(m.styles.Label.Render(formLabels[i]))
			body.WriteString(in.View())
			body.WriteString("\n")
		}
		sb.WriteString(m.styles.Title.Render(title))
		sb.WriteString("\n")
		sb.WriteString(m.styles.Box.Render(strings.TrimRight(body.String(), "\n")))
		sb.WriteString("\n")
		sb.WriteString(m.styles.Muted.Render("tab: поле  ctrl+s: сохранить  esc: назад"))
	}

	if st.Busy {
		sb.WriteString("\n" + m.styles.Muted.Render("загрузка..."))
	}
	if m.status != "" {
		style := m.styles.OK
		if m.failed {
			style = m.styles.Error
		}
		sb.WriteString("\n" + style.Render(m.status))
	}
	return sb.String() + "\n"
}

func (m Model) listHelp(u *session.User) string {
	keys := []string{"↑/↓: выбор", "r: обновить"}
	if u != nil && u.Role.CanAdd() {
		keys = append(keys, "a: добавить", "e: изменить")
	}
	if u != nil && u.Role.CanDelete() {
		keys = append(keys, "d: удалить")
	}
	keys = append(keys, "l: выйти", "q: закрыть")
	return strings.Join(keys, "  ")
}
