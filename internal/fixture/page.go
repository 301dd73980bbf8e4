package fixture

const pageHTML = `<!DOCTYPE html>
<html lang="ko">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>내 냉장고</title>
<style>
  body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif; margin: 0; background: #f6f8f7; color: #111; }
  main { max-width: 480px; margin: 0 auto; padding: 24px 16px; }
  h1 { font-size: 22px; margin: 0 0 16px; }
  .grid { display: grid; grid-template-columns: 1fr 1fr; gap: 12px; }
  .card { background: #fff; border-radius: 16px; padding: 20px; min-height: 120px; box-shadow: 0 1px 3px rgba(0,0,0,.08); }
  .card .type { color: #777; font-size: 12px; }
  .add { border: 2px dashed #13ec80; background: #effdf5; border-radius: 16px; min-height: 160px; font-weight: bold; cursor: pointer; }
  .overlay { position: fixed; inset: 0; background: rgba(0,0,0,.5); display: none; align-items: center; justify-content: center; padding: 16px; }
  .overlay.open { display: flex; }
  .modal { background: #fff; border-radius: 16px; padding: 24px; width: 100%; max-width: 360px; }
  .modal input { width: 100%; box-sizing: border-box; padding: 12px; border-radius: 12px; border: 1px solid #ddd; }
  .actions { display: flex; gap: 8px; margin-top: 16px; }
  .actions button { flex: 1; padding: 12px; border-radius: 12px; border: 0; font-weight: bold; }
  .primary { background: #13ec80; }
</style>
</head>
<body>
<main>
  <h1>내 냉장고</h1>
  <div class="grid" id="fridges">
    {{range .Fridges}}<div class="card" data-id="{{.ID}}"><div class="name">{{.Name}}</div><div class="type">{{.Type}}</div></div>
    {{end}}<button type="button" class="add" id="open-add">
      <span class="icon">add</span>
      <span>새 냉장고 추가</span>
    </button>
  </div>
</main>

<div class="overlay" id="modal">
  <div class="modal">
    <h3>새 보관 장소 추가</h3>
    <form id="fridge-form">
      <label for="fridge-name">이름</label>
      <input id="fridge-name" placeholder="예: 김치냉장고" autocomplete="off">
      <div class="actions">
        <button type="button" id="cancel">취소</button>
        <button type="submit" class="primary">추가하기</button>
      </div>
    </form>
  </div>
</div>

<script>
(function() {
  const fridges = [{{range $i, $f := .Fridges}}{{if $i}}, {{end}}{ id: {{$f.ID}}, name: {{$f.Name}}, type: {{$f.Type}} }{{end}}];
  const alertOnAdd = {{.AlertOnAdd}};
  const skipDuplicateCheck = {{.SkipDuplicateCheck}};
  const duplicateMessage = {{.DuplicateMessage}};

  const modal = document.getElementById('modal');
  const input = document.getElementById('fridge-name');
  const grid = document.getElementById('fridges');
  const addButton = document.getElementById('open-add');

  addButton.addEventListener('click', function() {
    input.value = '';
    modal.classList.add('open');
    input.focus();
  });
  document.getElementById('cancel').addEventListener('click', function() {
    modal.classList.remove('open');
  });

  document.getElementById('fridge-form').addEventListener('submit', function(e) {
    e.preventDefault();
    const name = input.value.trim();
    if (!name) return;

    if (!skipDuplicateCheck) {
      const isDuplicate = fridges.some(function(f) {
        return f.name.toLowerCase() === name.toLowerCase();
      });
      if (isDuplicate) {
        alert(duplicateMessage);
        return;
      }
    }

    const fridge = { id: String(fridges.length + 1), name: name, type: 'fridge' };
    fridges.push(fridge);
    const card = document.createElement('div');
    card.className = 'card';
    card.dataset.id = fridge.id;
    card.textContent = fridge.name;
    grid.insertBefore(card, addButton);
    modal.classList.remove('open');
    if (alertOnAdd) alert('Add Fridge');
  });
{{if .HangingRequest}}
  fetch('/hang').catch(function() {});
{{end}}
})();
</script>
</body>
</html>
`
